// storectl is a terminal client for the store-rating API.
//
//	storectl [-server URL] [-session FILE] <command> [flags]
//
// Commands: signup, login, logout, whoami, dashboard, add-store, rate.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"store-rating/internal/client"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "storectl:", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func run(args []string, out io.Writer) error {
	global := flag.NewFlagSet("storectl", flag.ContinueOnError)
	server := global.String("server", envOr("STORECTL_SERVER", "http://127.0.0.1:5000"), "API base URL")
	session := global.String("session", envOr("STORECTL_SESSION", client.DefaultSessionPath()), "session file")
	if err := global.Parse(args); err != nil {
		return err
	}
	rest := global.Args()
	if len(rest) == 0 {
		return errors.New("missing command (signup, login, logout, whoami, dashboard, add-store, rate)")
	}

	c, err := client.New(*server, client.FileStore{Path: *session})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, cargs := rest[0], rest[1:]
	switch cmd {
	case "signup":
		return signup(ctx, c, cargs, out)
	case "login":
		return login(ctx, c, cargs, out)
	case "logout":
		if err := c.Logout(); err != nil {
			return err
		}
		fmt.Fprintln(out, "logged out")
		return nil
	case "whoami":
		s := c.Session()
		if !s.LoggedIn() {
			fmt.Fprintln(out, "not logged in")
			return nil
		}
		fmt.Fprintln(out, "logged in as", s.Role)
		return nil
	case "dashboard":
		return dashboard(ctx, c, out)
	case "add-store":
		return addStore(ctx, c, cargs, out)
	case "rate":
		return rate(ctx, c, cargs, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func signup(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	var in client.SignupRequest
	fs.StringVar(&in.Name, "name", "", "full name, 20-60 characters")
	fs.StringVar(&in.Email, "email", "", "email address")
	fs.StringVar(&in.Password, "password", "", "password")
	fs.StringVar(&in.Address, "address", "", "postal address, up to 400 characters")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := c.Signup(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(out, "Registration successful, please log in.")
	return nil
}

func login(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := c.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "logged in as", s.Role)
	return dashboard(ctx, c, out)
}

func dashboard(ctx context.Context, c *client.Client, out io.Writer) error {
	switch c.Screen(client.ScreenAdmin) {
	case client.ScreenAdmin:
		v, err := c.AdminDashboard(ctx)
		if err != nil {
			return err
		}
		return client.RenderAdmin(out, v)
	case client.ScreenUser:
		v, err := c.UserDashboard(ctx)
		if err != nil {
			return err
		}
		return client.RenderUser(out, v)
	default:
		return errors.New("not logged in, run: storectl login -email ... -password ...")
	}
}

func addStore(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-store", flag.ContinueOnError)
	var in client.StoreRequest
	fs.StringVar(&in.Name, "name", "", "store name")
	fs.StringVar(&in.Email, "email", "", "store email")
	fs.StringVar(&in.Address, "address", "", "store address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.Screen(client.ScreenAdmin) != client.ScreenAdmin {
		return errors.New("add-store needs an admin session")
	}
	if _, err := c.CreateStore(ctx, in); err != nil {
		return err
	}
	return dashboard(ctx, c, out)
}

func rate(ctx context.Context, c *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	store := fs.Uint64("store", 0, "store id")
	value := fs.Int("rating", client.DefaultRating, "rating from 1 to 5")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if c.Screen(client.ScreenUser) != client.ScreenUser {
		return errors.New("rate needs a user session")
	}
	stores, err := c.Rate(ctx, *store, *value)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Rating submitted")
	return client.RenderUser(out, client.UserView{Stores: stores})
}
