package transport

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "cosplot/api/proto/v1"
)

// Dial opens a plaintext connection to a transform service at target.
func Dial(target string, opts ...grpc.DialOption) (pb.TransformClient, *grpc.ClientConn, error) {
	if len(opts) == 0 {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}
	cc, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, err
	}
	return pb.NewTransformClient(cc), cc, nil
}
