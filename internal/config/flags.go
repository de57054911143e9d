package config

import (
	"errors"
	"flag"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

func commandLineArgs() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}

// parseFlags parses the configuration flags from args into a fresh
// [StructuredConfig]. Each call uses its own flag set so the builder can run
// more than once per process.
//
// Flags:
//
//	-a             server listen address [host]:[port]
//	-grpc-address  gRPC health listen address [host]:[port]
//	-d             database DSN (Postgres on the server, SQLite path on the client)
//	-photos-dir    server photo directory
//	-s3-bucket     server photo S3 bucket
//	-s3-endpoint   server photo S3 endpoint
//	-remote        client remote store address
//	-token         client bearer token
//	-token-sign-key, -token-issuer, -token-duration
//	-request-timeout, -sync-interval, -echo-grace
//	-device-id, -snapshot-key, -log-file
//	-c/-config     JSON file path with configs
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("geminimeds", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		serverAddress, grpcServerAddress NetAddress
		cfg                              StructuredConfig
		requestTimeout                   time.Duration
	)

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.Photos.Dir, "photos-dir", "", "Photo store directory")
	fs.StringVar(&cfg.Storage.Photos.S3.Bucket, "s3-bucket", "", "Photo store S3 bucket")
	fs.StringVar(&cfg.Storage.Photos.S3.Endpoint, "s3-endpoint", "", "Photo store S3 endpoint")
	fs.StringVar(&cfg.Adapter.HTTPAddress, "remote", "", "Remote store address")
	fs.StringVar(&cfg.Adapter.Token, "token", "", "Bearer token")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Full sync period")
	fs.DurationVar(&cfg.Sync.EchoGrace, "echo-grace", 0, "Echo gate grace delay")
	fs.StringVar(&cfg.Sync.DeviceID, "device-id", "", "Device identifier override")
	fs.StringVar(&cfg.Sync.SnapshotKey, "snapshot-key", "", "Snapshot slot key")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Client log file")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()
	cfg.Server.RequestTimeout = requestTimeout
	cfg.Adapter.RequestTimeout = requestTimeout

	return &cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns "".
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
