package main

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"registry-client/internal/auth"
	"registry-client/internal/config"
	"registry-client/internal/form"
	"registry-client/internal/gateway"
	"registry-client/internal/logger"
	"registry-client/internal/service"

	"github.com/cenkalti/backoff"
	"gopkg.in/yaml.v3"
)

// OrganizationsFile is one seed file. Every entry is an organization form,
// so sub-entities can be created inline or reference earlier rows by id.
type OrganizationsFile struct {
	Organizations []form.Organization `yaml:"organizations"`
}

func main() {
	log.Println("🚀 Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	// keep the seed output readable, only warnings from the client packages
	logger.Setup("warn", cfg.LogFormat, os.Stderr)

	var source *auth.TokenSource
	if cfg.APIToken != "" {
		if source, err = auth.NewTokenSource(cfg.APIToken); err != nil {
			log.Fatalf("Invalid API token: %v", err)
		}
	}
	httpClient := &http.Client{Timeout: cfg.GatewayTimeout()}
	if source != nil {
		httpClient = auth.HTTPClient(httpClient, source)
	}
	client, err := gateway.NewClient(cfg.GatewayURL, httpClient)
	if err != nil {
		log.Fatalf("Failed to create gateway client: %v", err)
	}

	ctx := context.Background()

	// Wait for the Gateway with retry (for dockerized startup)
	if err := waitForGateway(ctx, client, 60, time.Second); err != nil {
		log.Fatalf("Failed to reach gateway: %v", err)
	}

	if err := loadDataFromYAMLFiles(ctx, client, "scripts/data"); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("✅ Initial data loaded successfully!")
}

// waitForGateway polls the organization types endpoint until the Gateway answers
func waitForGateway(ctx context.Context, client *gateway.Client, maxAttempts uint64, delay time.Duration) error {
	attempt := 0
	ping := func() error {
		attempt++
		_, err := client.OrganizationTypes(ctx)
		// Only log every 10 attempts to reduce noise
		if err != nil && attempt%10 == 0 {
			log.Printf("Gateway not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		return err
	}
	if err := backoff.Retry(ping, backoff.WithMaxRetries(backoff.NewConstantBackOff(delay), maxAttempts)); err != nil {
		return fmt.Errorf("gateway not ready after %d attempts: %w", attempt, err)
	}
	return nil
}

func loadDataFromYAMLFiles(ctx context.Context, client *gateway.Client, dataDir string) error {
	organizations, err := loadOrganizations(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load organizations: %w", err)
	}

	orgs := service.NewOrganizationService(client, nil, nil)

	created, existing := 0, 0
	for _, f := range organizations {
		wasCreated, err := createOrganization(ctx, client, orgs, f)
		if err != nil {
			return fmt.Errorf("organization %q: %w", f.Name, err)
		}
		if wasCreated {
			created++
		} else {
			existing++
		}
	}

	log.Printf("📊 Organizations: %d created, %d already present", created, existing)
	return nil
}

func loadOrganizations(dataDir string) ([]form.Organization, error) {
	var allOrgs []form.Organization

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "organizations") {
			var file OrganizationsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			allOrgs = append(allOrgs, file.Organizations...)
		}
		return nil
	})

	return allOrgs, err
}

// createOrganization submits f unless an organization with the same name exists
func createOrganization(ctx context.Context, client *gateway.Client, orgs *service.OrganizationService, f form.Organization) (bool, error) {
	name := strings.TrimSpace(f.Name)
	page, err := client.Organizations().List(ctx, gateway.ListQuery{
		Size:        100,
		Sort:        "id",
		Search:      name,
		SearchField: "name",
	})
	if err != nil {
		return false, fmt.Errorf("failed to query organization: %w", err)
	}
	for _, org := range page.Content {
		if org.Name == name {
			return false, nil
		}
	}

	if _, err := orgs.Submit(ctx, f, nil); err != nil {
		return false, err
	}
	return true, nil
}
