package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natserract/hs/pkg/config"
	"github.com/natserract/hs/pkg/credentials"
	"github.com/natserract/hs/pkg/hubspot"
	"go.uber.org/zap"
)

const usage = `Usage:
  crm search <object_type> <query> [limit]
  crm get <object_type> <object_id> [prop,prop,...]
  crm create <object_type> key=value [key=value ...]
  crm update <object_type> <object_id> key=value [key=value ...]
  crm associations <object_type> <object_id> <to_object_type>

Object types: contacts, companies, deals
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load config", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Build the credential store from the configured strategy and create
	// the HubSpot client on top of it
	store := credentials.StoreFromConfig(cfg, logger)
	client := hubspot.NewHubSpotWithLogger(cfg, store, logger)

	ctx := context.Background()
	result, err := run(ctx, client, os.Args[1], os.Args[2:])
	if err != nil {
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func run(ctx context.Context, client hubspot.Client, command string, args []string) (interface{}, error) {
	switch command {
	case "search":
		if len(args) < 2 {
			return nil, fmt.Errorf("search requires <object_type> and <query>")
		}
		limit := 10
		if len(args) > 2 {
			parsed, err := strconv.Atoi(args[2])
			if err != nil {
				return nil, fmt.Errorf("invalid limit %q: %w", args[2], err)
			}
			limit = parsed
		}
		return client.Search(ctx, hubspot.ObjectType(args[0]), args[1], nil, limit)

	case "get":
		if len(args) < 2 {
			return nil, fmt.Errorf("get requires <object_type> and <object_id>")
		}
		var props []string
		if len(args) > 2 {
			props = strings.Split(args[2], ",")
		}
		return client.Get(ctx, hubspot.ObjectType(args[0]), args[1], props)

	case "create":
		if len(args) < 2 {
			return nil, fmt.Errorf("create requires <object_type> and at least one key=value pair")
		}
		props, err := parseProperties(args[1:])
		if err != nil {
			return nil, err
		}
		return client.Create(ctx, hubspot.ObjectType(args[0]), props)

	case "update":
		if len(args) < 3 {
			return nil, fmt.Errorf("update requires <object_type>, <object_id> and at least one key=value pair")
		}
		props, err := parseProperties(args[2:])
		if err != nil {
			return nil, err
		}
		return client.Update(ctx, hubspot.ObjectType(args[0]), args[1], props)

	case "associations":
		if len(args) < 3 {
			return nil, fmt.Errorf("associations requires <object_type>, <object_id> and <to_object_type>")
		}
		return client.ListAssociations(ctx, hubspot.ObjectType(args[0]), args[1], hubspot.ObjectType(args[2]))

	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}

func parseProperties(pairs []string) (map[string]string, error) {
	props := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q, expected key=value", pair)
		}
		props[key] = value
	}
	return props, nil
}
