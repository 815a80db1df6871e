package main

import (
	"encoding/json"
	"fmt"
	"github.com/nftbay/marketplace-engine/internal/config"
	"github.com/nftbay/marketplace-engine/internal/config/di"
	"github.com/nftbay/marketplace-engine/internal/entity"
	"github.com/nftbay/marketplace-engine/internal/repository"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"os"
)

var (
	itemRepo    repository.ItemRepository
	saleRepo    repository.SaleRepository
	paymentRepo repository.PaymentRepository
)

func main() {
	config.Init("cli")

	container, err := di.NewContainer()
	if err != nil {
		zap.L().With(zap.Error(err)).Fatal("Failed to build container")
	}

	itemRepo = container.Get("item.repo").(repository.ItemRepository)
	saleRepo = container.Get("sale.repo").(repository.SaleRepository)
	paymentRepo = container.Get("payment.repo").(repository.PaymentRepository)

	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:   "items",
				Usage:  "List items from the audit index",
				Action: items,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Value: "", Usage: "Filter by status (listed, sold)"},
					&cli.StringFlag{Name: "seller", Value: "", Usage: "Filter by seller address"},
				},
			},
			{
				Name:   "sales",
				Usage:  "List settled sales for a seller or buyer",
				Action: sales,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "seller", Value: "", Usage: "Seller address"},
					&cli.StringFlag{Name: "buyer", Value: "", Usage: "Buyer address"},
				},
			},
			{
				Name:   "payments",
				Usage:  "List payment records for a payee",
				Action: payments,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "payee", Required: true, Usage: "Payee address"},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().With(zap.Error(err)).Fatal("Command failed")
	}
}

func items(c *cli.Context) error {
	if seller := c.String("seller"); seller != "" {
		found, err := itemRepo.GetItemsBySeller(seller, 100, 0)
		if err != nil {
			return err
		}
		return output(found)
	}

	found, err := itemRepo.GetItems(entity.Status(c.String("status")), 100, 0)
	if err != nil {
		return err
	}

	return output(found)
}

func sales(c *cli.Context) error {
	if seller := c.String("seller"); seller != "" {
		found, err := saleRepo.GetSalesBySeller(seller, 100, 0)
		if err != nil {
			return err
		}
		return output(found)
	}

	if buyer := c.String("buyer"); buyer != "" {
		found, err := saleRepo.GetSalesByBuyer(buyer, 100, 0)
		if err != nil {
			return err
		}
		return output(found)
	}

	return fmt.Errorf("seller or buyer required")
}

func payments(c *cli.Context) error {
	found, err := paymentRepo.GetPaymentsForPayee(c.String("payee"), 100, 0)
	if err != nil {
		return err
	}

	return output(found)
}

func output(el interface{}) error {
	b, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(b))

	return nil
}
