package transform

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "cosplot/api/proto/v1"
	"cosplot/internal/cosine"
	"cosplot/internal/transport"
)

// Client applies one transform stage to a value.
type Client interface {
	Apply(ctx context.Context, v float64) (float64, error)
	Health(ctx context.Context) error
	Close() error
}

// GRPCClient calls a remote cosplot.v1.Transform service.
type GRPCClient struct {
	conn   *grpc.ClientConn
	svc    pb.TransformClient
	health healthpb.HealthClient
}

func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	svc, conn, err := transport.Dial(target, opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{
		conn:   conn,
		svc:    svc,
		health: healthpb.NewHealthClient(conn),
	}, nil
}

func (c *GRPCClient) Apply(ctx context.Context, v float64) (float64, error) {
	out, err := c.svc.Apply(ctx, wrapperspb.Double(v))
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

func (c *GRPCClient) Health(ctx context.Context) error {
	res, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: pb.Transform_ServiceDesc.ServiceName})
	if err != nil {
		return err
	}
	if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("transform service not serving: %s", res.GetStatus())
	}
	return nil
}

func (c *GRPCClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Func is an in-process transform.
type Func func(float64) float64

// InProcessClient adapts a Func compiled into the binary.
type InProcessClient struct {
	fn Func
}

// NewInProcessClient wraps fn; a nil fn means cosine.Transform.
func NewInProcessClient(fn Func) *InProcessClient {
	if fn == nil {
		fn = cosine.Transform
	}
	return &InProcessClient{fn: fn}
}

func (c *InProcessClient) Apply(ctx context.Context, v float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return c.fn(v), nil
}

func (c *InProcessClient) Health(context.Context) error {
	if c.fn == nil {
		return errors.New("in-process transform has no function")
	}
	return nil
}

func (c *InProcessClient) Close() error { return nil }
