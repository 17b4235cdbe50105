package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	"github.com/kevin07696/card-gateways/internal/config"
	"github.com/kevin07696/card-gateways/internal/services/gateways"
	"github.com/kevin07696/card-gateways/pkg/encoding"
	pkghttp "github.com/kevin07696/card-gateways/pkg/http"
	"github.com/kevin07696/card-gateways/pkg/logging"
	"github.com/kevin07696/card-gateways/pkg/observability"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitDeclined = 2
)

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain returns the process exit code so deferred cleanup runs before exit
func realMain(args []string) int {
	fs := flag.NewFlagSet("gatewayctl", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "YAML config file (environment only when empty)")
		gwName     = fs.String("gateway", "", "Gateway: credorax, anotherlane, econtext")
		action     = fs.String("action", "", "Action: purchase, authorize, capture, void, refund, store, verify, unstore, status")
		amount     = fs.String("amount", "", "Amount in major units, e.g. 10.00 or 500")
		cardNumber = fs.String("card", "", "Card number")
		expiry     = fs.String("exp", "", "Card expiry MM/YYYY")
		cvv        = fs.String("cvv", "", "Card verification value")
		cardName   = fs.String("name", "", "Cardholder name")
		token      = fs.String("token", "", "Stored token or member id instead of a card")
		authPairs  = fs.String("auth", "", "Authorization from a previous response as key=value,key=value")
		orderID    = fs.String("order", "", "Order id (random uuid when empty)")
		desc       = fs.String("description", "", "Order description")
		email      = fs.String("email", "", "Customer email")
		currency   = fs.String("currency", "", "ISO currency code")
		customerID = fs.String("customer-id", "", "Customer or member id")
		refundType = fs.String("refund-type", "", "Credorax refund type")
		timeout    = fs.Duration("timeout", 90*time.Second, "Overall timeout")
		metricsOut = fs.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	)
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	if *gwName == "" || *action == "" {
		fmt.Println("Usage: gatewayctl -gateway=<gateway> -action=<action> [options]")
		fmt.Println("Actions:")
		fmt.Println("  purchase   - Authorize and capture (-amount, -card or -token)")
		fmt.Println("  authorize  - Authorize only (-amount, -card or -token)")
		fmt.Println("  capture    - Capture an authorization (-auth, optional -amount)")
		fmt.Println("  void       - Void an authorization (-auth)")
		fmt.Println("  refund     - Refund a charge (-auth, optional -amount)")
		fmt.Println("  store      - Store a card (-card)")
		fmt.Println("  verify     - Verify a card (-card)")
		fmt.Println("  unstore    - Delete a stored card (econtext, -customer-id)")
		fmt.Println("  status     - Query a transaction (anotherlane, -auth)")
		return exitFailure
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	logger, err := logging.NewLogger(cfg.Logger.Level, cfg.Logger.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	secretManager, err := gateways.NewSecretManager(ctx, cfg.Secrets, logger)
	if err != nil {
		logger.Error("failed to initialize secrets backend", ports.Err(err))
		return exitFailure
	}

	httpClient := pkghttp.NewHTTPClient(pkghttp.ProcessorClientConfig(), cfg.HTTP.Timeout)
	registry, err := gateways.NewRegistry(ctx, cfg, secretManager, httpClient, logger)
	if err != nil {
		logger.Error("failed to build gateways", ports.Err(err))
		return exitFailure
	}

	gw, err := registry.Get(*gwName)
	if err != nil {
		logger.Error("unknown gateway",
			ports.String("gateway", *gwName),
			ports.String("configured", strings.Join(registry.Names(), ",")),
			ports.Err(err),
		)
		return exitFailure
	}

	req := request{
		action:     *action,
		amount:     *amount,
		cardNumber: *cardNumber,
		expiry:     *expiry,
		cvv:        *cvv,
		cardName:   *cardName,
		token:      *token,
		auth:       *authPairs,
		opts: ports.Options{
			OrderID:     *orderID,
			Description: *desc,
			Email:       *email,
			Currency:    *currency,
			CustomerID:  *customerID,
			RefundType:  ports.RefundType(*refundType),
		},
	}
	if req.opts.OrderID == "" {
		req.opts.OrderID = uuid.NewString()
	}
	if *cardNumber != "" {
		logger.Info("using card", ports.String("card", logging.MaskCardNumber(*cardNumber)))
	}

	resp, err := run(ctx, gw, req)
	if *metricsOut != "" {
		if werr := observability.WriteMetricsFile(*metricsOut); werr != nil {
			logger.Warn("failed to write metrics", ports.Err(werr))
		}
	}
	if err != nil {
		logger.Error("request failed", ports.String("action", *action), ports.Err(err))
		return exitFailure
	}

	out, err := encoding.EncodeJSONIndent(resp)
	if err != nil {
		logger.Error("failed to encode response", ports.Err(err))
		return exitFailure
	}
	os.Stdout.Write(out)
	if !resp.Success {
		return exitDeclined
	}
	return exitOK
}
