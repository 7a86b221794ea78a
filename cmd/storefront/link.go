package main

import (
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/cartstore"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/notify"
	"github.com/spf13/cobra"
)

var (
	linkCartKey string
	linkContact domain.Contact
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Print the WhatsApp checkout link of a stored cart",
	Long: `link loads the cart stored under --cart-key and prints the checkout link
the storefront would hand the shopper. The cart is left untouched.`,
	RunE: runLink,
}

func init() {
	linkCmd.Flags().StringVar(&linkCartKey, "cart-key", "", "Storage key of the cart, e.g. drt-store-cart:<uuid>")
	linkCmd.Flags().StringVar(&linkContact.Name, "name", "", "Customer name")
	linkCmd.Flags().StringVar(&linkContact.Phone, "phone", "", "Customer phone")
	linkCmd.Flags().StringVar(&linkContact.Address, "address", "", "Delivery address")
	linkCmd.Flags().StringVar(&linkContact.Notes, "notes", "", "Order notes")
	_ = linkCmd.MarkFlagRequired("cart-key")
}

func runLink(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	storage, closeStorage, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	builder, err := newBuilder(cfg)
	if err != nil {
		return err
	}

	store := cartstore.Open(ctx, linkCartKey, storage, notify.New(notify.NewZapSink(logger)), cartstore.WithLogger(logger))
	if len(store.Lines()) == 0 {
		return errors.New("cart is empty")
	}

	fmt.Fprintln(cmd.OutOrStdout(), builder.CreateCheckoutLink(store.Lines(), linkContact))
	return nil
}
