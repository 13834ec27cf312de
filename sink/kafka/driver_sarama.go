package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/IBM/sarama"

	"cosplot/internal/cosine"
	"cosplot/internal/logging"
	"cosplot/sink"
)

type Config struct {
	Brokers  []string `yaml:"brokers"`
	Topic    string   `yaml:"topic"`
	Acks     int16    `yaml:"required_acks"` // 0,1,-1
	ClientID string   `yaml:"client_id"`
}

// newProducer is swapped for a mock producer in tests.
var newProducer = sarama.NewAsyncProducer

type driver struct {
	cfg Config
	p   sarama.AsyncProducer

	done chan struct{}

	// mu guards the producer lifecycle: Push holds it shared while sending,
	// Close exclusively. drainErrors never takes it, so a Push blocked on
	// Input() cannot stall the error drain.
	mu     sync.RWMutex
	closed bool

	errMu  sync.Mutex
	failed error // first delivery error seen
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config, got %T", c)
	}
	if len(cfg.Brokers) == 0 {
		return errors.New("kafka-sink: no brokers configured")
	}
	if cfg.Topic == "" {
		return errors.New("kafka-sink: no topic configured")
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	sc.Producer.Return.Errors = true
	if cfg.ClientID != "" {
		sc.ClientID = cfg.ClientID
	}
	p, err := newProducer(cfg.Brokers, sc)
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	d.p = p
	d.done = make(chan struct{})
	go d.drainErrors()
	return nil
}

func (d *driver) Push(pt cosine.Point) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.p == nil || d.closed {
		return errors.New("kafka-sink: producer not open")
	}
	val, err := json.Marshal(pt)
	if err != nil {
		return fmt.Errorf("kafka-sink: encode point %d: %w", pt.I, err)
	}
	d.p.Input() <- &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Key:   sarama.StringEncoder(strconv.Itoa(pt.I)),
		Value: sarama.ByteEncoder(val),
	}
	return nil
}

func (d *driver) Close() error {
	d.mu.Lock()
	if d.p == nil || d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := d.p.Close()
	<-d.done

	d.errMu.Lock()
	defer d.errMu.Unlock()
	if d.failed != nil {
		return fmt.Errorf("kafka-sink: delivery: %w", d.failed)
	}
	if err != nil {
		return fmt.Errorf("kafka-sink: %w", err)
	}
	return nil
}

func (d *driver) drainErrors() {
	defer close(d.done)
	for perr := range d.p.Errors() {
		logging.L().Warn("kafka-sink: delivery failed", "topic", perr.Msg.Topic, "err", perr.Err)
		d.errMu.Lock()
		if d.failed == nil {
			d.failed = perr.Err
		}
		d.errMu.Unlock()
	}
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
