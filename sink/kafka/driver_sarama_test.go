package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"cosplot/internal/cosine"
	"cosplot/sink"
)

func withMockProducer(t *testing.T) *mocks.AsyncProducer {
	t.Helper()
	mp := mocks.NewAsyncProducer(t, nil)
	prev := newProducer
	newProducer = func([]string, *sarama.Config) (sarama.AsyncProducer, error) { return mp, nil }
	t.Cleanup(func() { newProducer = prev })
	return mp
}

func TestKafkaSink_PublishesPointsInOrder(t *testing.T) {
	mp := withMockProducer(t)
	pts, _ := cosine.Iterate(cosine.DefaultRange)
	for _, want := range pts {
		mp.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
			var got cosine.Point
			if err := json.Unmarshal(val, &got); err != nil {
				return err
			}
			if got != want {
				return fmt.Errorf("want %+v, got %+v", want, got)
			}
			return nil
		})
	}

	d := &driver{}
	if err := d.Configure(Config{Brokers: []string{"localhost:9092"}, Topic: "points", Acks: 1}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	for _, p := range pts {
		if err := d.Push(p); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := d.Push(pts[0]); err == nil {
		t.Fatal("expected error pushing after close")
	}
}

func TestKafkaSink_DeliveryFailureReportedOnClose(t *testing.T) {
	mp := withMockProducer(t)
	mp.ExpectInputAndFail(errors.New("broker down"))

	d := &driver{}
	if err := d.Configure(Config{Brokers: []string{"b:9092"}, Topic: "points"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := d.Push(cosine.At(1)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := d.Close(); err == nil {
		t.Fatal("expected delivery error from Close")
	}
}

// failingProducer rejects every message with two errors on unbuffered
// channels, so Push can only make progress while errors are being drained.
type failingProducer struct {
	sarama.AsyncProducer
	input chan *sarama.ProducerMessage
	errs  chan *sarama.ProducerError
	done  chan struct{}
}

func newFailingProducer() *failingProducer {
	fp := &failingProducer{
		input: make(chan *sarama.ProducerMessage),
		errs:  make(chan *sarama.ProducerError),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(fp.done)
		defer close(fp.errs)
		for m := range fp.input {
			fp.errs <- &sarama.ProducerError{Msg: m, Err: errors.New("not leader")}
			fp.errs <- &sarama.ProducerError{Msg: m, Err: errors.New("retries exhausted")}
		}
	}()
	return fp
}

func (fp *failingProducer) Input() chan<- *sarama.ProducerMessage { return fp.input }
func (fp *failingProducer) Errors() <-chan *sarama.ProducerError  { return fp.errs }
func (fp *failingProducer) AsyncClose()                           { close(fp.input) }
func (fp *failingProducer) Close() error {
	fp.AsyncClose()
	<-fp.done
	return nil
}

func TestKafkaSink_PushDoesNotStallErrorDrain(t *testing.T) {
	fp := newFailingProducer()
	prev := newProducer
	newProducer = func([]string, *sarama.Config) (sarama.AsyncProducer, error) { return fp, nil }
	t.Cleanup(func() { newProducer = prev })

	d := &driver{}
	if err := d.Configure(Config{Brokers: []string{"b:9092"}, Topic: "points"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		for i := 1; i <= 50; i++ {
			if err := d.Push(cosine.At(i)); err != nil {
				done <- err
				return
			}
		}
		done <- d.Close()
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected delivery error from Close")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Push/Close stalled while delivery errors were pending")
	}
}

func TestKafkaSink_ConfigureValidation(t *testing.T) {
	d := &driver{}
	for _, raw := range []any{
		"nope",
		Config{Topic: "points"},
		Config{Brokers: []string{"b:9092"}},
	} {
		if err := d.Configure(raw); err == nil {
			t.Fatalf("expected error for %#v", raw)
		}
	}
}

func TestKafkaSink_Registered(t *testing.T) {
	if _, err := sink.NewAdapter("kafka"); err != nil {
		t.Fatalf("kafka sink not registered: %v", err)
	}
}
