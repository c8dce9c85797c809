// Package client provides test commands for the certquest gRPC service
package client

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	gamev1alpha1 "github.com/KirkDiggler/certquest/internal/handlers/game/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// NewClientCmd builds the root command for all client test commands
func NewClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Test client commands for the certquest game service",
		Long:  `Client commands allow you to drive a running certquest server by making real gRPC requests.`,
	}

	cmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newInputCmd())
	cmd.AddCommand(newSnapshotCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newEndCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

// createGameClient creates a game service client
func createGameClient() (gamev1alpha1.GameServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return gamev1alpha1.NewGameServiceClient(conn), cleanup, nil
}

// rpc is a method expression on GameServiceClient, e.g. GameServiceClient.SendInput
type rpc func(gamev1alpha1.GameServiceClient, context.Context, *structpb.Struct, ...grpc.CallOption) (*structpb.Struct, error)

// call sends req with the configured timeout and prints the response
func call(out io.Writer, fields map[string]any, method rpc) error {
	client, cleanup, err := createGameClient()
	if err != nil {
		return err
	}
	defer cleanup()

	req, err := structpb.NewStruct(fields)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := method(client, ctx, req)
	if err != nil {
		return err
	}
	return printResponse(out, resp)
}

func printResponse(out io.Writer, resp *structpb.Struct) error {
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
