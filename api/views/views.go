// Package views holds the JSON view models returned by the storefront routes.
// Every view embeds the header so a client can render the page from one call.
package views

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	"github.com/angelmondragon/storefront-backend/internal/clients"
	"github.com/angelmondragon/storefront-backend/internal/workspace"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/pagination"
)

const Brand = "Online Shop"

type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var navigation = []NavLink{
	{Label: "Home", Path: "/"},
	{Label: "Shop", Path: "/products"},
	{Label: "Clients", Path: "/clients"},
	{Label: "Account", Path: "/account"},
	{Label: "Cart", Path: "/cart"},
}

type Header struct {
	Brand     string    `json:"brand"`
	CartCount int       `json:"cart_count"`
	Theme     string    `json:"theme"`
	Nav       []NavLink `json:"nav"`
}

// NewHeader builds the header for ws. The badge is the cart's total quantity.
func NewHeader(ws *workspace.Workspace) Header {
	nav := make([]NavLink, len(navigation))
	copy(nav, navigation)
	return Header{
		Brand:     Brand,
		CartCount: ws.Badge(),
		Theme:     string(ws.Theme.Mode()),
		Nav:       nav,
	}
}

type Home struct {
	Header   Header            `json:"header"`
	Title    string            `json:"title"`
	Subtitle string            `json:"subtitle"`
	Heading  string            `json:"heading"`
	Products []catalog.Product `json:"products"`
	Footer   string            `json:"footer"`
}

func NewHome(ws *workspace.Workspace, top []catalog.Product) Home {
	return Home{
		Header:   NewHeader(ws),
		Title:    "Welcome to the Shop",
		Subtitle: "Discover our curated selection of premium products",
		Heading:  "Top 5 Products",
		Products: nonNilProducts(top),
		Footer:   "© 2025 Online Shop. All rights reserved.",
	}
}

type Products struct {
	Header       Header            `json:"header"`
	Title        string            `json:"title"`
	Query        string            `json:"query,omitempty"`
	Products     []catalog.Product `json:"products"`
	EmptyMessage string            `json:"empty_message,omitempty"`
}

func NewProducts(ws *workspace.Workspace, query string, list []catalog.Product) Products {
	v := Products{
		Header:   NewHeader(ws),
		Title:    "All Products",
		Query:    query,
		Products: nonNilProducts(list),
	}
	if len(list) == 0 {
		v.EmptyMessage = "No products available."
	}
	return v
}

type ProductDetails struct {
	Header  Header          `json:"header"`
	Product catalog.Product `json:"product"`
}

type Account struct {
	Header      Header `json:"header"`
	Title       string `json:"title"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	MemberSince string `json:"member_since"`
}

func NewAccount(ws *workspace.Workspace, acct config.AccountConfig) Account {
	return Account{
		Header:      NewHeader(ws),
		Title:       "My Account",
		FullName:    acct.FullName,
		Email:       acct.Email,
		MemberSince: acct.MemberSince,
	}
}

type Cart struct {
	Header        Header          `json:"header"`
	Title         string          `json:"title"`
	Items         []cart.Item     `json:"items"`
	TotalItems    int             `json:"total_items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	EmptyMessage  string          `json:"empty_message,omitempty"`
	CheckoutLabel string          `json:"checkout_label,omitempty"`
}

func NewCart(ws *workspace.Workspace) Cart {
	snap := ws.Cart.Snapshot()
	v := Cart{
		Header:      NewHeader(ws),
		Title:       "Shopping Cart",
		Items:       snap.Items,
		TotalItems:  snap.TotalItems,
		TotalAmount: snap.TotalAmount,
	}
	if v.Items == nil {
		v.Items = []cart.Item{}
	}
	if len(v.Items) == 0 {
		v.EmptyMessage = "Your cart is empty"
	} else {
		// checkout is a placeholder with no action behind it
		v.CheckoutLabel = "Proceed to Checkout"
	}
	return v
}

type Clients struct {
	Header     Header            `json:"header"`
	Title      string            `json:"title"`
	Clients    []clients.Client  `json:"clients"`
	Pagination pagination.Window `json:"pagination"`
}

func NewClients(ws *workspace.Workspace, page clients.Page) Clients {
	list := page.Clients
	if list == nil {
		list = []clients.Client{}
	}
	return Clients{
		Header:     NewHeader(ws),
		Title:      "Clients",
		Clients:    list,
		Pagination: page.Window,
	}
}

type Theme struct {
	Header Header `json:"header"`
	Mode   string `json:"mode"`
}

func NewTheme(ws *workspace.Workspace) Theme {
	return Theme{Header: NewHeader(ws), Mode: string(ws.Theme.Mode())}
}

type NotFound struct {
	Header   Header  `json:"header"`
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	HomeLink NavLink `json:"home_link"`
}

func NewNotFound(ws *workspace.Workspace) NotFound {
	return NotFound{
		Header:   NewHeader(ws),
		Code:     "404",
		Message:  "Oops! Page not found",
		HomeLink: NavLink{Label: "Return to Home", Path: "/"},
	}
}

func nonNilProducts(in []catalog.Product) []catalog.Product {
	if in == nil {
		return []catalog.Product{}
	}
	return in
}
