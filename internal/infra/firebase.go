// README: Firebase Admin SDK token verifier used by the API auth middleware.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Caller is the identity behind a verified ID token.
type Caller struct {
	UID   string
	Email string
	Role  string
}

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Caller, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier uses credentialsFile when set, application-default
// credentials otherwise.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Caller, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return callerFromClaims(token.UID, token.Claims), nil
}

func callerFromClaims(uid string, claims map[string]interface{}) *Caller {
	c := &Caller{UID: uid, Role: "customer"}
	if email, ok := claims["email"].(string); ok {
		c.Email = email
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		c.Role = role
	}
	return c
}
