package ner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"book-insight/internal/domain/entity"
	"book-insight/internal/resilience/circuitbreaker"
	"book-insight/internal/resilience/retry"
)

// RecognizeMethod is the full gRPC method name served by the sidecar.
// Request and response are google.protobuf.Struct values:
//
//	request:  {"text": "..."}
//	response: {"entities": [{"label": "PERSON", "text": "...", "start": 0, "end": 4}]}
const RecognizeMethod = "/ner.v1.EntityRecognizer/Recognize"

const grpcProvider = "grpc"

// GRPCConfig configures the sidecar client.
type GRPCConfig struct {
	// Address is the sidecar address. Format: "host:port".
	Address string

	// Timeout bounds one Recognize call, retries included.
	Timeout time.Duration

	// Retry configures backoff for Unavailable and ResourceExhausted replies.
	Retry retry.Config
}

// GRPC recognizes entities through the sidecar service.
type GRPC struct {
	conn           *grpc.ClientConn
	config         GRPCConfig
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewGRPC creates a client for the sidecar. The connection is established in
// the background; use Ready to check it. Extra dial options are appended
// after the default insecure transport credentials.
func NewGRPC(cfg GRPCConfig, opts ...grpc.DialOption) (*GRPC, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("ner grpc address is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("ner timeout must be positive, got %v", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = retry.NERConfig()
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	// Initiate connection (non-blocking)
	conn.Connect()

	slog.Info("Initialized gRPC entity recognizer",
		slog.String("address", cfg.Address),
		slog.Duration("timeout", cfg.Timeout))

	return &GRPC{
		conn:           conn,
		config:         cfg,
		circuitBreaker: circuitbreaker.New(circuitbreaker.NERConfig()),
	}, nil
}

// Recognize sends the whole text to the sidecar and returns its entities.
func (g *GRPC) Recognize(ctx context.Context, text string) (entities []entity.Entity, err error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	start := time.Now()
	defer func() { observe(grpcProvider, start, err) }()

	req, err := structpb.NewStruct(map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to build recognize request: %w", err)
	}

	err = retry.WithBackoff(ctx, g.config.Retry, func() error {
		resp, cbErr := circuitbreaker.Do(g.circuitBreaker, func() (*structpb.Struct, error) {
			out := &structpb.Struct{}
			if err := g.conn.Invoke(ctx, RecognizeMethod, req, out); err != nil {
				return nil, mapGRPCError(err)
			}
			return out, nil
		})
		if cbErr != nil {
			if errors.Is(cbErr, gobreaker.ErrOpenState) || errors.Is(cbErr, gobreaker.ErrTooManyRequests) {
				return ErrCircuitOpen
			}
			return cbErr
		}

		parsed, parseErr := decodeEntities(resp)
		if parseErr != nil {
			return parseErr
		}
		entities = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Ready reports whether the connection to the sidecar is established.
// An idle connection is asked to reconnect and reported as not ready.
func (g *GRPC) Ready() bool {
	state := g.conn.GetState()
	if state == connectivity.Idle {
		g.conn.Connect()
	}
	return state == connectivity.Ready
}

// CircuitBreaker exposes the client's breaker for health reporting.
func (g *GRPC) CircuitBreaker() *circuitbreaker.CircuitBreaker {
	return g.circuitBreaker
}

// Close closes the gRPC connection.
func (g *GRPC) Close() error {
	if g.conn != nil {
		return g.conn.Close()
	}
	return nil
}

// mapGRPCError converts gRPC status errors into errors the retry layer
// understands. Unavailable and ResourceExhausted are retryable.
func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch st.Code() {
	case codes.Unavailable:
		return retry.WithStatus(fmt.Errorf("%w: %s", ErrUnavailable, st.Message()), 503)
	case codes.ResourceExhausted:
		return retry.WithStatus(fmt.Errorf("entity recognizer overloaded: %s", st.Message()), 429)
	case codes.DeadlineExceeded:
		return ErrTimeout
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("entity recognizer error (%s): %s", st.Code(), st.Message())
	}
}

func decodeEntities(resp *structpb.Struct) ([]entity.Entity, error) {
	list := resp.GetFields()["entities"]
	if list == nil {
		return nil, nil
	}
	if _, ok := list.GetKind().(*structpb.Value_ListValue); !ok {
		return nil, fmt.Errorf("%w: entities is not a list", ErrInvalidResponse)
	}

	values := list.GetListValue().GetValues()
	out := make([]entity.Entity, 0, len(values))
	for i, v := range values {
		fields := v.GetStructValue().GetFields()
		if fields == nil {
			return nil, fmt.Errorf("%w: entity %d is not an object", ErrInvalidResponse, i)
		}
		start, okStart := intField(fields, "start")
		end, okEnd := intField(fields, "end")
		if !okStart || !okEnd {
			return nil, fmt.Errorf("%w: entity %d has no integer offsets", ErrInvalidResponse, i)
		}
		out = append(out, entity.Entity{
			Label: fields["label"].GetStringValue(),
			Text:  fields["text"].GetStringValue(),
			Start: start,
			End:   end,
		})
	}
	return out, nil
}

func intField(fields map[string]*structpb.Value, key string) (int, bool) {
	v, ok := fields[key]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false
	}
	return int(n.NumberValue), true
}
