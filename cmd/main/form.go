package main

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/pflag"
)

// promptSettings asks for the theme and counts and stores the answers as
// explicitly set flags, so they take precedence in config.Load.
func promptSettings(flags *pflag.FlagSet) error {
	theme := flagValue(flags, "theme", "Consumer Electronics")
	categories := flagValue(flags, "categories", "10")
	products := flagValue(flags, "products", "100")
	users := flagValue(flags, "users", "10")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What is the marketplace theme?").
				Placeholder("Consumer Electronics").
				Value(&theme).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("theme is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("How many top-level categories?").
				Value(&categories).
				Validate(positive),
			huh.NewInput().
				Title("How many products?").
				Value(&products).
				Validate(positive),
			huh.NewInput().
				Title("How many users?").
				Value(&users).
				Validate(positive),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	for name, value := range map[string]string{
		"theme":      strings.TrimSpace(theme),
		"categories": categories,
		"products":   products,
		"users":      users,
	} {
		if err := flags.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

func flagValue(flags *pflag.FlagSet, name, fallback string) string {
	if f := flags.Lookup(name); f != nil && f.Changed {
		return f.Value.String()
	}
	return fallback
}

func positive(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a positive whole number")
	}
	return nil
}
