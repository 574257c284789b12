package printing

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/tijara/backend/internal/domain/partner"
	"github.com/tijara/backend/internal/domain/settings"
	"github.com/tijara/backend/internal/domain/trade"
)

// DeliveryNoteTitle is printed in the header of every page
const DeliveryNoteTitle = "BON DE LIVRAISON"

// ClientCard is the client block of the first page
type ClientCard struct {
	Name      string
	IsCompany bool
	ICE       string
	Address   string
	Phone     string
	Email     string
}

// DeliveryNote is everything needed to render a delivery note
type DeliveryNote struct {
	Title         string
	CompanyName   string
	LogoURL       string
	Initials      string
	Number        string
	OrderDate     time.Time
	DeliveryDate  *time.Time
	StatusLabel   string
	Client        ClientCard
	ItemCount     int
	TotalQuantity decimal.Decimal
	ApplyVAT      bool
	Pages         []Page[trade.OrderLine]
	Subtotal      decimal.Decimal
	TotalVAT      decimal.Decimal
	TotalTTC      decimal.Decimal
	Footer        []string
}

// ShowVAT reports whether the VAT row is printed
func (d *DeliveryNote) ShowVAT() bool {
	return d.TotalVAT.IsPositive()
}

// NewDeliveryNote assembles the view model. client may be nil for walk-in orders.
func NewDeliveryNote(order *trade.SalesOrder, client *partner.Client, company *settings.CompanyProfile, layout Layout) *DeliveryNote {
	if company == nil {
		company = &settings.CompanyProfile{}
	}
	note := &DeliveryNote{
		Title:         DeliveryNoteTitle,
		CompanyName:   company.Name,
		LogoURL:       company.LogoURL,
		Initials:      Initials(company.Name),
		Number:        order.Number,
		OrderDate:     order.OrderDate,
		DeliveryDate:  order.DeliveryDate,
		StatusLabel:   order.Status.Label(),
		Client:        clientCard(order, client),
		ItemCount:     len(order.Items),
		TotalQuantity: order.TotalQuantity(),
		ApplyVAT:      order.ApplyVAT,
		Pages:         Paginate(order.Items, layout),
		Subtotal:      order.Subtotal,
		TotalVAT:      order.TotalVAT,
		TotalTTC:      order.TotalTTC,
		Footer:        FooterParts(company),
	}
	return note
}

func clientCard(order *trade.SalesOrder, client *partner.Client) ClientCard {
	card := ClientCard{Name: order.DisplayClientName()}
	if order.ClientType == trade.ClientTypeCompany && client != nil {
		card.IsCompany = true
		card.Name = client.Name
		card.ICE = client.ICE
		card.Address = client.Address
		card.Phone = client.Phone
		card.Email = client.Email
	}
	return card
}

// Initials returns the two-letter logo fallback
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "SOCIETE"
	}
	if utf8.RuneCountInString(name) > 2 {
		name = string([]rune(name)[:2])
	}
	return strings.ToUpper(name)
}

// FooterParts lists the company identifiers printed at the bottom of each
// page; empty values are left out.
func FooterParts(c *settings.CompanyProfile) []string {
	parts := make([]string, 0, 8)
	if c.Name != "" {
		parts = append(parts, c.Name)
	}
	add := func(label, value string) {
		if value == "" {
			return
		}
		if label == "" {
			parts = append(parts, value)
			return
		}
		parts = append(parts, label+": "+value)
	}
	add("", c.Address)
	add("Tél", c.Phone)
	add("Email", c.Email)
	add("ICE", c.ICE)
	add("IF", c.IF)
	add("RC", c.RC)
	add("Patente", c.Patente)
	return parts
}
