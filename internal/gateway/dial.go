package gateway

import (
	"cloud.google.com/go/bigtable"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"time"
)

// Retry is applied by gRPC to UNAVAILABLE responses on both connections.
type Retry struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ClientOptions describe how to reach the Bigtable instance.
type ClientOptions struct {
	Project  string
	Instance string
	// CredentialsFile is a service account key. Empty uses application default credentials.
	CredentialsFile string
	// EmulatorHost dials a local emulator over plaintext instead of the service.
	EmulatorHost string
	// Channels is the gRPC connection pool size of the data client.
	Channels int
	Retry    Retry
}

func (o *ClientOptions) validate() error {
	var errGrp []error
	if o.Project == "" {
		errGrp = append(errGrp, errors.New("project id is required"))
	}
	if o.Instance == "" {
		errGrp = append(errGrp, errors.New("instance id is required"))
	}
	if o.Channels < 0 {
		errGrp = append(errGrp, errors.New("channels cannot be negative"))
	}
	if o.Retry.MaxRetries < 0 {
		errGrp = append(errGrp, errors.New("max retries cannot be negative"))
	}
	if o.Retry.MaxRetries > 0 && o.Retry.Multiplier < 1 {
		errGrp = append(errGrp, errors.New("retry multiplier must be at least 1"))
	}
	return errors.Join(errGrp...)
}

// Dial creates the admin and data clients. Each gets its own connection so
// closing one never tears down the other.
func Dial(ctx context.Context, o *ClientOptions) (*bigtable.AdminClient, *bigtable.Client, error) {
	if err := o.validate(); err != nil {
		return nil, nil, err
	}

	adminOpts, err := o.clientOptions(false)
	if err != nil {
		return nil, nil, err
	}
	admin, err := bigtable.NewAdminClient(ctx, o.Project, o.Instance, adminOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create admin client: %w", err)
	}

	dataOpts, err := o.clientOptions(true)
	if err != nil {
		_ = admin.Close()
		return nil, nil, err
	}
	clientCfg := bigtable.ClientConfig{}
	if o.EmulatorHost != "" {
		// the emulator has no monitoring endpoint to export client metrics to
		clientCfg.MetricsProvider = bigtable.NoopMetricsProvider{}
	}
	data, err := bigtable.NewClientWithConfig(ctx, o.Project, o.Instance, clientCfg, dataOpts...)
	if err != nil {
		_ = admin.Close()
		return nil, nil, fmt.Errorf("failed to create data client: %w", err)
	}

	log.Info().
		Str("project", o.Project).
		Str("instance", o.Instance).
		Bool("emulator", o.EmulatorHost != "").
		Msg("bigtable clients created")
	return admin, data, nil
}

func (o *ClientOptions) clientOptions(pooled bool) ([]option.ClientOption, error) {
	var dialOpts []grpc.DialOption
	if sc := o.serviceConfig(); sc != "" {
		dialOpts = append(dialOpts, grpc.WithDefaultServiceConfig(sc))
	}

	if o.EmulatorHost != "" {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		conn, err := grpc.NewClient(o.EmulatorHost, dialOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to dial emulator at %s: %w", o.EmulatorHost, err)
		}
		return []option.ClientOption{option.WithGRPCConn(conn)}, nil
	}

	var opts []option.ClientOption
	for _, d := range dialOpts {
		opts = append(opts, option.WithGRPCDialOption(d))
	}
	if o.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(o.CredentialsFile))
	}
	if pooled && o.Channels > 0 {
		opts = append(opts, option.WithGRPCConnectionPool(o.Channels))
	}
	return opts, nil
}

type retryPolicy struct {
	MaxAttempts          int      `json:"maxAttempts"`
	InitialBackoff       string   `json:"initialBackoff"`
	MaxBackoff           string   `json:"maxBackoff"`
	BackoffMultiplier    float64  `json:"backoffMultiplier"`
	RetryableStatusCodes []string `json:"retryableStatusCodes"`
}

type methodConfig struct {
	Name        []map[string]string `json:"name"`
	RetryPolicy retryPolicy         `json:"retryPolicy"`
}

// serviceConfig renders the retry settings as a gRPC service config. gRPC
// needs at least two attempts for a policy, so zero retries yields none.
func (o *ClientOptions) serviceConfig() string {
	if o.Retry.MaxRetries <= 0 {
		return ""
	}

	initial := o.Retry.InitialDelay
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	maxDelay := o.Retry.MaxDelay
	if maxDelay < initial {
		maxDelay = initial
	}

	cfg := map[string][]methodConfig{
		"methodConfig": {{
			Name: []map[string]string{
				{"service": "google.bigtable.v2.Bigtable"},
				{"service": "google.bigtable.admin.v2.BigtableTableAdmin"},
			},
			RetryPolicy: retryPolicy{
				MaxAttempts:          o.Retry.MaxRetries + 1,
				InitialBackoff:       seconds(initial),
				MaxBackoff:           seconds(maxDelay),
				BackoffMultiplier:    o.Retry.Multiplier,
				RetryableStatusCodes: []string{"UNAVAILABLE"},
			},
		}},
	}

	b, err := json.Marshal(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to render retry policy")
		return ""
	}
	return string(b)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}
