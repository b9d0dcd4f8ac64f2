package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/tickart/internal/domain/catalog"
	"github.com/xenking/tickart/internal/domain/discount"
	"github.com/xenking/tickart/internal/repository"
)

type categoryJSON struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Products []productJSON `json:"products"`
}

type productJSON struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ruleJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     int    `json:"position"`
	Active       bool   `json:"active"`
	SubeventMode string `json:"subeventMode"`
	Condition    struct {
		AllProducts             bool            `json:"allProducts"`
		LimitProducts           []string        `json:"limitProducts"`
		ApplyToAddons           bool            `json:"applyToAddons"`
		IgnoreVoucherDiscounted bool            `json:"ignoreVoucherDiscounted"`
		MinCount                int             `json:"minCount"`
		MinValue                decimal.Decimal `json:"minValue"`
	} `json:"condition"`
	Benefit struct {
		SameProducts            bool            `json:"sameProducts"`
		LimitProducts           []string        `json:"limitProducts"`
		DiscountPercent         decimal.Decimal `json:"discountPercent"`
		CheapestNMatches        int             `json:"cheapestNMatches"`
		ApplyToAddons           bool            `json:"applyToAddons"`
		IgnoreVoucherDiscounted bool            `json:"ignoreVoucherDiscounted"`
	} `json:"benefit"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
		rulesFile   string
	)
	flag.StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	flag.StringVar(&catalogFile, "catalog", "data/catalog.json", "catalog fixture (.json or .json.gz)")
	flag.StringVar(&rulesFile, "rules", "data/rules.json", "discount rule fixture (.json or .json.gz)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile, rulesFile); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, databaseURL, catalogFile, rulesFile string) error {
	if databaseURL == "" {
		return errors.New("database URL is required")
	}

	var (
		categories []categoryJSON
		rules      []ruleJSON
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return loadJSON(catalogFile, &categories) })
	g.Go(func() error { return loadJSON(rulesFile, &rules) })
	if err := g.Wait(); err != nil {
		return err
	}

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	catalogRepo := repository.NewCatalogRepository(pool)
	for i, c := range categories {
		if err := catalogRepo.UpsertCategory(ctx, c.ID, c.Name, i); err != nil {
			return err
		}
		for j, p := range c.Products {
			product := catalog.Product{ID: p.ID, Name: p.Name, Price: p.Price, Category: c.Name}
			if err := catalogRepo.UpsertProduct(ctx, product, c.ID, j); err != nil {
				return err
			}
		}
	}
	slog.Info("seeded catalog", "categories", len(categories))

	ruleRepo := repository.NewRuleRepository(pool)
	for _, r := range rules {
		stored, err := toStoredRule(r)
		if err != nil {
			return err
		}
		if err := ruleRepo.UpsertRule(ctx, stored); err != nil {
			return err
		}
	}
	slog.Info("seeded discount rules", "rules", len(rules))
	return nil
}

func toStoredRule(r ruleJSON) (repository.StoredRule, error) {
	rule := discount.Rule{
		ID:           r.ID,
		Name:         r.Name,
		SubeventMode: discount.SubeventMode(r.SubeventMode),
		Condition: discount.Condition{
			Scope:                   scopeFrom(r.Condition.AllProducts, r.Condition.LimitProducts),
			ApplyToAddons:           r.Condition.ApplyToAddons,
			IgnoreVoucherDiscounted: r.Condition.IgnoreVoucherDiscounted,
			MinCount:                r.Condition.MinCount,
			MinValue:                r.Condition.MinValue,
		},
		Benefit: discount.Benefit{
			SameProducts:            r.Benefit.SameProducts,
			DiscountPercent:         r.Benefit.DiscountPercent,
			CheapestNMatches:        r.Benefit.CheapestNMatches,
			ApplyToAddons:           r.Benefit.ApplyToAddons,
			IgnoreVoucherDiscounted: r.Benefit.IgnoreVoucherDiscounted,
		},
	}
	if !r.Benefit.SameProducts {
		rule.Benefit.Scope = discount.Products(r.Benefit.LimitProducts...)
	}
	if err := rule.Validate(); err != nil {
		return repository.StoredRule{}, errors.Wrapf(err, "fixture rule %q", r.ID)
	}
	return repository.StoredRule{Rule: rule, Position: r.Position, Active: r.Active}, nil
}

func scopeFrom(all bool, products []string) discount.Scope {
	if all {
		return discount.AllProducts()
	}
	return discount.Products(products...)
}

// loadJSON reads a fixture file, transparently decompressing .gz dumps.
func loadJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "gzip %s", path)
		}
		defer gz.Close()
		r = gz
	}

	if err := json.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrapf(err, "decode %s", path)
	}
	return nil
}
