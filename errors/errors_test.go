package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		grpcCode codes.Code
		http     int
	}{
		{"nil", nil, "", codes.OK, http.StatusOK},
		{"validation", Validation("content is required"), KindValidation, codes.InvalidArgument, http.StatusBadRequest},
		{"not found", NotFound("message %s", "m1"), KindNotFound, codes.NotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, KindForbidden, codes.PermissionDenied, http.StatusForbidden},
		{"policy", ErrEditWindowExpired, KindPolicyViolation, codes.FailedPrecondition, http.StatusBadRequest},
		{"storage", Storage(fmt.Errorf("disk full")), KindStorage, codes.Unavailable, http.StatusServiceUnavailable},
		{"partial", fmt.Errorf("%w: link", ErrPartialFailure), KindPartialFailure, codes.Aborted, http.StatusInternalServerError},
		{"unauthenticated", ErrUnauthenticated, KindUnauthenticated, codes.Unauthenticated, http.StatusUnauthorized},
		{"unclassified", fmt.Errorf("boom"), KindInternal, codes.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.kind, KindOf(tt.err))
			req.Equal(tt.grpcCode, GRPCCode(tt.err))
			req.Equal(tt.http, HTTPStatus(tt.err))
		})
	}
}

func TestOpError_Unwraps_To_Sentinel(t *testing.T) {
	req := require.New(t)
	err := &OpError{Op: "EditMessage", ChatID: "c1", MessageID: "m1", Err: ErrEditWindowExpired}

	req.ErrorIs(err, ErrEditWindowExpired)
	req.Equal(KindPolicyViolation, KindOf(err))
	req.Equal("EditMessage chat=c1 message=m1: edit window expired", err.Error())

	var opErr *OpError
	req.True(As(fmt.Errorf("wrapped: %w", err), &opErr))
	req.Equal("m1", opErr.MessageID)
}

func TestStorage_Keeps_Classified_Errors(t *testing.T) {
	req := require.New(t)
	notFound := NotFound("chat c1")
	req.Equal(notFound, Storage(notFound))
	req.Nil(Storage(nil))
}

func TestMapToGRPCError(t *testing.T) {
	req := require.New(t)
	req.Nil(MapToGRPCError(nil))

	st, ok := status.FromError(MapToGRPCError(ErrForbidden))
	req.True(ok)
	req.Equal(codes.PermissionDenied, st.Code())

	original := status.Error(codes.DeadlineExceeded, "slow")
	req.Equal(original, MapToGRPCError(original))
}

func TestPolicyViolation_Carries_Reason(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("op: %w", &PolicyViolation{Reason: "Message older than 30 min"})

	req.ErrorIs(err, ErrEditWindowExpired)
	var violation *PolicyViolation
	req.True(As(err, &violation))
	req.Equal("Message older than 30 min", violation.Reason)
	req.Equal(KindPolicyViolation, KindOf(err))
}
