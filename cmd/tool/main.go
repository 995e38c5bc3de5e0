// Command tool mints signed tokens for local testing and load runs.
//
//	go run ./cmd/tool -email user@example.com -scope access_token -n 1000 -out tests/load/tokens.csv
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/baechuer/contacts-service/internal/application/auth"
	"github.com/baechuer/contacts-service/internal/domain"
	"github.com/baechuer/contacts-service/internal/infrastructure/security"
)

type options struct {
	email  string
	scope  string
	ttl    time.Duration
	count  int
	out    string
	secret string
	alg    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("tool", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	fs.StringVar(&o.email, "email", "user@example.com", "token subject")
	fs.StringVar(&o.scope, "scope", string(domain.ScopeAccess), "access_token | refresh_token | email_token")
	fs.DurationVar(&o.ttl, "ttl", time.Hour, "token lifetime")
	fs.IntVar(&o.count, "n", 1, "number of tokens")
	fs.StringVar(&o.out, "out", "", "write tokens to this file instead of stdout")
	fs.StringVar(&o.secret, "secret", os.Getenv("JWT_SECRET"), "signing secret (default $JWT_SECRET)")
	fs.StringVar(&o.alg, "alg", envOr("JWT_ALGORITHM", "HS256"), "signing algorithm (default $JWT_ALGORITHM)")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.secret == "" {
		return options{}, errors.New("missing signing secret: set JWT_SECRET or pass -secret")
	}
	if strings.TrimSpace(o.email) == "" {
		return options{}, errors.New("email must not be empty")
	}
	if o.count <= 0 {
		return options{}, errors.New("n must be positive")
	}
	if o.ttl <= 0 {
		return options{}, errors.New("ttl must be positive")
	}
	return o, nil
}

func mint(o options, w io.Writer, now time.Time) error {
	scope, err := domain.ParseTokenScope(o.scope)
	if err != nil {
		return err
	}
	codec, err := security.NewJWTCodec(o.secret, strings.ToUpper(o.alg))
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for i := 0; i < o.count; i++ {
		claims := auth.TokenClaims{
			Subject:   strings.ToLower(strings.TrimSpace(o.email)),
			Scope:     scope,
			IssuedAt:  now,
			ExpiresAt: now.Add(o.ttl),
		}
		if scope == domain.ScopeRefresh {
			claims.ID = uuid.NewString()
		}
		s, err := codec.Encode(claims)
		if err != nil {
			return err
		}
		if _, err := bw.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	w := stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		defer f.Close()
		w = f
		fmt.Fprintf(stderr, "Generating %d tokens...\n", o.count)
	}

	if err := mint(o, w, time.Now()); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if o.out != "" {
		fmt.Fprintln(stderr, "Done generating tokens.")
	}
	return 0
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
