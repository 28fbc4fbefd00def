// Command totpcode prints the current MFA code for a secret returned by
// POST /api/v1/settings/mfa/enroll, for exercising verification locally.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pquerna/otp/totp"
)

func main() {
	secret := os.Getenv("MFA_SECRET")
	if len(os.Args) > 1 {
		secret = os.Args[1]
	}
	if secret == "" {
		fmt.Fprintln(os.Stderr, "usage: totpcode <secret> (or set MFA_SECRET)")
		os.Exit(2)
	}
	code, err := totp.GenerateCode(secret, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(code)
}
