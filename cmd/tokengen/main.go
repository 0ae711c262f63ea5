// Command tokengen generates HS256 bearer tokens for exercising the admin API
// locally: flat roles, a resource-scoped role block, or both.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	secret := flag.String("secret", "very-secure-jwt-secret", "Secret key for signing the token")
	subject := flag.String("subject", "test-subject", "Subject of the token (usually user ID)")
	principal := flag.String("principal", "", "Value for the preferred_username claim, if any")
	rolesCSV := flag.String("roles", "", "Comma-separated flat roles")
	resourceID := flag.String("resource-id", "", "resource_access key for the resource roles")
	resourceRolesCSV := flag.String("resource-roles", "", "Comma-separated roles under the resource-id")
	expiry := flag.Duration("expiry", 30*time.Minute, "Token expiry duration (e.g., 30m, 1h, 24h)")
	flag.Parse()

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": *subject,
		"iat": now.Unix(),
		"exp": now.Add(*expiry).Unix(),
	}
	if *principal != "" {
		claims["preferred_username"] = *principal
	}
	if roles := splitCSV(*rolesCSV); len(roles) > 0 {
		claims["roles"] = roles
	}
	if resourceRoles := splitCSV(*resourceRolesCSV); *resourceID != "" && len(resourceRoles) > 0 {
		claims["resource_access"] = map[string]interface{}{
			*resourceID: map[string]interface{}{
				"roles": resourceRoles,
			},
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(*secret))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(tokenStr)
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			roles = append(roles, trimmed)
		}
	}
	return roles
}
