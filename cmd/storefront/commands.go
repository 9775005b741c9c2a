package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/pkg/address"
	"storefront/pkg/api"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/format"
	"storefront/pkg/order"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR")
			for _, cat := range c.app.API.ListCategories(cmd.Context()) {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", cat.ID, cat.Name, catalog.ColorClass(cat.Color))
			}
			return tw.Flush()
		},
	}
}

func (c *cli) productsCmd() *cobra.Command {
	var (
		page     int
		category int
		term     string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, optionally by category or search term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if term != "" && category != 0 {
				return errors.New("--search and --category are mutually exclusive")
			}
			ctx := cmd.Context()
			b := catalog.New(c.app.API, catalog.WithLogger(c.app.Log))

			var view catalog.View
			switch {
			case term != "":
				view = b.SetSearchTerm(ctx, term)
			case category != 0:
				v, err := b.SelectCategory(ctx, category)
				if err != nil {
					return err
				}
				view = v
			default:
				view = b.Refresh(ctx)
			}
			for view.Query.Page < page && view.HasNext() {
				view = b.NextPage(ctx)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.Title)
			if view.EmptyMessage != "" {
				fmt.Fprintln(out, view.EmptyMessage)
				return nil
			}
			tw := table(out)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE")
			for _, p := range view.Products {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.ID, p.Name, format.Price(p.Price))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Página %d de %d\n", view.Query.Page, view.LastPage)
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	cmd.Flags().IntVarP(&category, "category", "c", 0, "category id")
	cmd.Flags().StringVarP(&term, "search", "s", "", "search term")
	return cmd
}

func (c *cli) printCart(w io.Writer) error {
	items := c.cart.Items()
	if len(items) == 0 {
		fmt.Fprintln(w, cart.MsgEmptyCart)
		return nil
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tSUBTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", it.ID, it.Title, it.Quantity, format.Price(it.Price), format.Price(it.Subtotal()))
	}
	fmt.Fprintf(tw, "\t\t%d\t\t%s\n", c.cart.TotalItems(), format.Price(c.cart.TotalPrice()))
	return tw.Flush()
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func (c *cli) cartCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cart",
		Short: "Show or edit the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.printCart(cmd.OutOrStdout())
		},
	}

	add := &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a catalogue product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := c.app.API.GetProduct(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("produto %d: %s", id, api.MessageOf(err, "não encontrado"))
			}
			c.cart.Add(cmd.Context(), cart.ProductFromAPI(p))
			return c.printCart(cmd.OutOrStdout())
		},
	}

	set := &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			c.cart.UpdateQuantity(cmd.Context(), id, qty)
			return c.printCart(cmd.OutOrStdout())
		},
	}

	rm := &cobra.Command{
		Use:   "rm <product-id>",
		Short: "Remove a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c.cart.Remove(cmd.Context(), id)
			return c.printCart(cmd.OutOrStdout())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.cart.Clear(cmd.Context())
			return c.printCart(cmd.OutOrStdout())
		},
	}

	root.AddCommand(add, set, rm, clearCmd)
	return root
}

func (c *cli) checkoutCmd() *cobra.Command {
	var payment, notes string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order with the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := c.cart.Checkout(cmd.Context(), payment, notes)
			if !res.Success {
				return errors.New(res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Pedido #%d\n", res.Message, res.OrderID)
			return nil
		},
	}
	cmd.Flags().StringVar(&payment, "payment", order.DefaultPaymentMethod, "payment method: cartao, boleto or pix")
	cmd.Flags().StringVar(&notes, "notes", "", "order notes")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in; the password comes from --password or STOREFRONT_PASSWORD",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("STOREFRONT_PASSWORD")
			}
			res := c.auth.Login(cmd.Context(), args[0], password)
			if !res.Success {
				return errors.New(res.Message)
			}
			s := c.auth.Current()
			fmt.Fprintf(cmd.OutOrStdout(), "Olá, %s!\n", s.User.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.auth.Logout(cmd.Context())
			return nil
		},
	}
}

func (c *cli) ordersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "Show the order history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := c.account.Orders(cmd.Context())
			if err != nil {
				return err
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tPAYMENT\tTOTAL")
			for _, o := range orders {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					o.ID,
					format.Date(o.CreatedAt),
					order.ParseStatus(o.Status).Label(),
					format.PaymentMethod(o.PaymentMethod),
					format.Price(format.ParseMoney(o.Total)),
				)
			}
			return tw.Flush()
		},
	}
}

func (c *cli) profileCmd() *cobra.Command {
	var cep string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the account profile; --cep previews the address for a postal code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.account.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if cep != "" {
				u.PostalCode = cep
				u = c.account.FillAddress(cmd.Context(), u)
			}
			tw := table(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Nome\t%s %s\n", u.Name, u.Surname)
			fmt.Fprintf(tw, "E-mail\t%s\n", u.Email)
			fmt.Fprintf(tw, "Documento\t%s\n", format.Document(u.Document))
			fmt.Fprintf(tw, "Endereço\t%s, %s %s\n", u.Street, u.Number, u.Complement)
			fmt.Fprintf(tw, "\t%s - %s/%s\n", u.District, u.City, u.State)
			fmt.Fprintf(tw, "CEP\t%s\n", u.PostalCode)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&cep, "cep", "", "postal code to fill the address from")
	return cmd
}

func (c *cli) cepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cep <code>",
		Short: "Look up an address by postal code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.app.Address.Lookup(cmd.Context(), args[0])
			if errors.Is(err, address.ErrNotFound) {
				return errors.New("CEP não encontrado")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s, %s - %s/%s\n", a.Street, a.District, a.City, a.State)
			return nil
		},
	}
}
