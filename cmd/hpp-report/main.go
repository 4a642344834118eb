package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"go-hpp-engine/internal/config"
	"go-hpp-engine/internal/repository"
	"go-hpp-engine/internal/service"
	"go-hpp-engine/pkg/database"
	"go-hpp-engine/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// hpp-report prints the cost breakdown and tier prices of every product owned
// by one account.
func main() {
	email := flag.String("email", "", "account email whose products are reported")
	envFile := flag.String("env", "", "optional .env file")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	if err := run(*email, *envFile, *timeout, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "hpp-report:", err)
		os.Exit(1)
	}
}

func run(email, envFile string, timeout time.Duration, out io.Writer) (err error) {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("-email is required")
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	opts, err := cfg.Costing.Options()
	if err != nil {
		return err
	}
	log := logger.Must(logger.New("warn"))
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		return err
	}
	defer func() {
		sqlDB, dbErr := db.DB()
		if dbErr == nil {
			dbErr = sqlDB.Close()
		}
		err = multierr.Append(err, dbErr)
	}()

	user, err := repository.NewUserRepo(db).FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("account %s: %w", email, err)
	}

	hpp := service.NewHppService(
		repository.NewSnapshotRepo(db),
		repository.NewProductRepo(db),
		repository.NewCostSummaryRepo(db),
		opts, nil, nil, logger.Named(log, "hpp"),
	)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	reports, err := hpp.ListProductCosts(ctx, user.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PRODUCT\tSOURCE\tBAHAN\tOVERHEAD\tTENAGA KERJA\tPENYUSUTAN\tHPP\tSTANDARD\tPREMIUM\t")
	for _, r := range reports {
		prices := []string{"-", "-"}
		if id, parseErr := uuid.Parse(r.ProductID); parseErr == nil && r.Total != nil {
			pricing, err := hpp.Recommend(user.ID, id, nil)
			if err != nil {
				log.Warn("pricing failed", zap.String("product", r.ProductName), zap.Error(err))
			} else {
				for i, rec := range pricing.Recommendations {
					if i >= len(prices) {
						break
					}
					prices[i] = price(rec.RoundedPrice, rec.Price)
				}
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.ProductName, r.Source,
			amount(r.IngredientsPerUnit), amount(r.OverheadPerUnit),
			amount(r.LaborPerUnit), amount(r.DepreciationPerUnit),
			amount(r.Total), prices[0], prices[1],
		)
	}
	return tw.Flush()
}

func price(rounded, raw *float64) string {
	if rounded != nil {
		return amount(rounded)
	}
	return amount(raw)
}

func amount(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f", *v)
}
