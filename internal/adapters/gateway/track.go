package gateway

import (
	"errors"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/card-gateways/pkg/errors"
	"github.com/kevin07696/card-gateways/pkg/observability"
)

// Track logs one gateway operation and records its result metric
func Track(logger ports.Logger, gateway, operation string, opts ports.Options, fn func() (*ports.Response, error)) (*ports.Response, error) {
	logger.Info("processing "+operation,
		ports.String("gateway", gateway),
		ports.String("operation", operation),
		ports.String("order_id", opts.OrderID),
	)

	resp, err := fn()

	switch {
	case err != nil && (pkgerrors.IsValidationError(err) || errors.Is(err, pkgerrors.ErrNotSupported)):
		observability.RecordOperation(gateway, operation, observability.ResultInvalid)
		logger.Warn("operation rejected before sending",
			ports.String("gateway", gateway),
			ports.String("operation", operation),
			ports.Err(err),
		)
	case err != nil:
		observability.RecordOperation(gateway, operation, observability.ResultError)
		logger.Error("operation failed",
			ports.String("gateway", gateway),
			ports.String("operation", operation),
			ports.Err(err),
		)
	case !resp.Success:
		observability.RecordOperation(gateway, operation, observability.ResultDeclined)
		logger.Info("processor declined "+operation,
			ports.String("gateway", gateway),
			ports.String("order_id", opts.OrderID),
			ports.String("message", resp.Message),
			ports.String("error_code", resp.ErrorCode),
		)
	default:
		observability.RecordOperation(gateway, operation, observability.ResultApproved)
		logger.Info("processor approved "+operation,
			ports.String("gateway", gateway),
			ports.String("order_id", opts.OrderID),
		)
	}
	return resp, err
}
