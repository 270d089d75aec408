package config

import (
	"context"
	"fmt"
	"net/url"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// ApplySecretOverlay replaces the JWT secret and the DB password with values
// fetched from GCP Secret Manager. It is a no-op when no project ID is
// configured, so local development keeps working from plain env vars.
func (c *Config) ApplySecretOverlay(ctx context.Context, opts ...option.ClientOption) error {
	if c.GCPProjectID == "" {
		return nil
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create secret manager client: %w", err)
	}
	defer client.Close()

	if c.JWTSecretName != "" {
		secret, err := accessSecret(ctx, client, c.GCPProjectID, c.JWTSecretName)
		if err != nil {
			return err
		}
		c.JWTSecret = secret
	}

	if c.DBPasswordSecretName != "" {
		password, err := accessSecret(ctx, client, c.GCPProjectID, c.DBPasswordSecretName)
		if err != nil {
			return err
		}
		dsn, err := url.Parse(c.DBConnectionString)
		if err != nil {
			return fmt.Errorf("parse DB connection string: %w", err)
		}
		dsn.User = url.UserPassword(dsn.User.Username(), password)
		c.DBConnectionString = dsn.String()
	}

	return nil
}

func accessSecret(ctx context.Context, client *secretmanager.Client, projectID, name string) (string, error) {
	res, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name),
	})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	return string(res.Payload.Data), nil
}
