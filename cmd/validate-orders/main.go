package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/pkg/validate"
)

// CLI-приложение для проверки журнала заказов (orders.json).
func main() {
	inputPath := flag.String("in", "", "path to orders journal (.json). If empty, reads from stdin.")
	flag.Parse()

	var reader io.Reader = os.Stdin
	if *inputPath != "" {
		f, err := os.Open(*inputPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		reader = f
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read: %v\n", err)
		os.Exit(1)
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		fmt.Fprintf(os.Stderr, "decode journal: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	formValidator := validate.NewOrderFormValidator()

	invalid := 0
	for i := range orders {
		o := &orders[i]
		label := o.Reference
		if label == "" {
			label = o.OrderUID
		}

		if o.OrderUID == "" {
			invalid++
			fmt.Fprintf(os.Stdout, "%s: missing order uid\n", label)
			continue
		}
		if len(o.Items) == 0 {
			invalid++
			fmt.Fprintf(os.Stdout, "%s: order has no items\n", label)
			continue
		}
		if want := domain.Cart(o.Items).Subtotal(); want != o.Totals.Subtotal {
			invalid++
			fmt.Fprintf(os.Stdout, "%s: subtotal mismatch: items=%d totals=%d\n", label, want, o.Totals.Subtotal)
			continue
		}

		if fieldErrs := formValidator.Validate(ctx, &o.Customer); len(fieldErrs) > 0 {
			invalid++
			fields := make([]string, 0, len(fieldErrs))
			for f := range fieldErrs {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(os.Stdout, "%s: %s: %s\n", label, f, fieldErrs[f])
			}
		}
	}

	if invalid > 0 {
		fmt.Fprintf(os.Stderr, "validation failed: %d of %d orders invalid\n", invalid, len(orders))
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%d orders)\n", len(orders))
}
