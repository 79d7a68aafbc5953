package client

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripshare/internal/common"
)

var ErrUnavailable = fmt.Errorf("%w: ping failed", common.ErrConnectivity)

// ErrNoSession is returned for a mutation attempted without an actor.
var ErrNoSession = errors.New("no authenticated session")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	msg := st.Message()
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
		return fmt.Errorf("%w: %s", common.ErrConnectivity, msg)
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", common.ErrAuthentication, msg)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %w: %s", common.ErrConflict, common.ErrorForbidden, msg)
	case codes.NotFound:
		return fmt.Errorf("%w: %w: %s", common.ErrConflict, common.ErrorNotFound, msg)
	default:
		return fmt.Errorf("%w: %s", common.ErrConflict, msg)
	}
}
