package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokengen mints development access tokens in the shape the server expects
// from the identity provider: HS256, subject is the account identity, with
// optional email and name claims.
func main() {
	secret := flag.String("secret", "very-secure-jwt-secret", "Secret key for signing the token")
	issuer := flag.String("issuer", "tailors-track", "Issuer of the token")
	audience := flag.String("audience", "tailors-track", "Audience of the token")
	subject := flag.String("subject", "dev-identity", "Subject of the token (the account identity)")
	email := flag.String("email", "", "Email claim")
	name := flag.String("name", "", "Name claim")
	expiry := flag.Duration("expiry", 30*time.Minute, "Token expiry duration (e.g., 30m, 1h, 24h)")
	outputFormat := flag.String("format", "compact", "Output format: compact or debug")
	flag.Parse()

	now := time.Now()
	expiryTime := now.Add(*expiry)

	claims := jwt.MapClaims{
		"iss": *issuer,
		"aud": *audience,
		"sub": *subject,
		"iat": now.Unix(),
		"exp": expiryTime.Unix(),
	}
	if *email != "" {
		claims["email"] = *email
	}
	if *name != "" {
		claims["name"] = *name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "compact":
		fmt.Println(tokenStr)
	case "debug":
		fmt.Printf("=== Token ===\n%s\n\n", tokenStr)
		fmt.Printf("=== Claims ===\n")
		claimsJSON, _ := json.MarshalIndent(claims, "", "  ")
		fmt.Printf("%s\n\n", claimsJSON)
		fmt.Printf("Expires: %s\n", expiryTime.Format(time.RFC3339))
	default:
		fmt.Fprintf(os.Stderr, "Error: Unknown output format: %s\n", *outputFormat)
		os.Exit(1)
	}
}
