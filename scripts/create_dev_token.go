package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

// Generates a development JWT for exercising the API locally.
// Token issuance belongs to the campus identity service in production;
// this script only exists so the protected routes can be tried out.
func main() {
	// Parse command line flags
	role := flag.String("role", "student", "User role (student or staff)")
	uid := flag.Uint("uid", 1, "User ID to embed in the token")
	hours := flag.Int("hours", 24, "Token lifetime in hours")
	flag.Parse()

	if *role != "student" && *role != "staff" {
		log.Fatalf("Unknown role %q, expected student or staff", *role)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret"
	}

	claims := jwt.MapClaims{
		"uid":  fmt.Sprintf("%d", *uid),
		"role": *role,
		"exp":  time.Now().Add(time.Duration(*hours) * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		log.Fatal("Could not sign token:", err)
	}

	fmt.Println("Development token created:")
	fmt.Printf("  role: %s\n", *role)
	fmt.Printf("  uid:  %d\n", *uid)
	fmt.Printf("  Authorization: Bearer %s\n", signed)
}
