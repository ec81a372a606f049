package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mrbebidas/catalog-backend/internal/cart"
	"github.com/mrbebidas/catalog-backend/internal/pricing"
)

// ComposeMessage renders the Portuguese order message handed to WhatsApp.
// Lines without a parseable price render as price-on-request and count
// zero toward the total.
func ComposeMessage(storeName, customerName string, c *cart.Cart) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Olá %s! Gostaria de fazer um pedido:\n\n", storeName)
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n\n", customerName)
	b.WriteString("🛒 *Itens:*\n")
	for _, line := range c.Lines {
		fmt.Fprintf(&b, "• *%dx* %s (%s)\n", line.Quantity, line.Name, pricing.Format(line.Price))
	}
	fmt.Fprintf(&b, "\n💰 *Total:* %s", pricing.FormatAmount(c.Total()))
	return b.String()
}

// HandoffURL builds the WhatsApp deep link carrying the composed message.
// Spaces encode as %20 rather than form-style +, matching the link the
// storefront has always produced.
func HandoffURL(baseURL, phone, message string) string {
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return baseURL + "?phone=" + url.QueryEscape(phone) + "&text=" + text
}
