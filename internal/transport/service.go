package transport

import (
	"context"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "cosplot/api/proto/v1"
	"cosplot/internal/cosine"
	"cosplot/internal/logging"
	"cosplot/internal/telemetry"
)

// maxSeriesLen bounds one Series call.
const maxSeriesLen = 1 << 16

type transformService struct {
	pb.UnimplementedTransformServer
}

func (transformService) Apply(_ context.Context, in *wrapperspb.DoubleValue) (*wrapperspb.DoubleValue, error) {
	v := in.GetValue()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		telemetry.RPCRequests.WithLabelValues("Apply", codes.InvalidArgument.String()).Inc()
		return nil, status.Errorf(codes.InvalidArgument, "value %v is not finite", v)
	}
	telemetry.RPCRequests.WithLabelValues("Apply", codes.OK.String()).Inc()
	return wrapperspb.Double(cosine.Transform(v)), nil
}

func (transformService) Series(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	r, err := RangeFromStruct(req)
	if err != nil {
		telemetry.RPCRequests.WithLabelValues("Series", codes.InvalidArgument.String()).Inc()
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if r.Len() > maxSeriesLen {
		telemetry.RPCRequests.WithLabelValues("Series", codes.OutOfRange.String()).Inc()
		return status.Errorf(codes.OutOfRange, "series of %d points exceeds %d", r.Len(), maxSeriesLen)
	}
	pts, err := cosine.Iterate(r)
	if err != nil {
		return status.Error(codes.Internal, err.Error())
	}
	for _, p := range pts {
		if err := stream.Send(PointToStruct(p)); err != nil {
			logging.L().Warn("transport: series stream aborted", "i", p.I, "err", err)
			return err
		}
	}
	telemetry.RPCRequests.WithLabelValues("Series", codes.OK.String()).Inc()
	return nil
}
