// Package handoff turns a submitted order into the message the store receives:
// a text summary, a WhatsApp chat link, and an event on the message bus.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/shopspring/decimal"
)

const defaultGreeting = "Olá! Gostaria de fazer um pedido."

// FormatBRL renders an amount as Brazilian reais, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Summarize formats the order as a chat message. The lines are the ones
// captured at checkout; nothing is looked up again.
func Summarize(o *domain.Order, lines []cart.Line, greeting string) string {
	if greeting == "" {
		greeting = defaultGreeting
	}

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Pedido %s\n", o.DisplayNumber())
	fmt.Fprintf(&b, "Cliente: %s (%s)\n", o.CustomerName, o.CustomerPhone)
	if o.DeliveryDate != nil {
		fmt.Fprintf(&b, "Entrega: %s\n", o.DeliveryDate.Format("02/01/2006"))
	}
	b.WriteString("\n")

	for _, l := range lines {
		fmt.Fprintf(&b, "%dx %s - %s\n", l.Quantity, l.Name, FormatBRL(l.Total()))
		writeDetail(&b, l)
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", FormatBRL(o.Total))
	if o.Notes != "" {
		fmt.Fprintf(&b, "Observações: %s\n", o.Notes)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeDetail(b *strings.Builder, l cart.Line) {
	switch l.Kind {
	case cart.LineKit:
		k := l.Kit
		fmt.Fprintf(b, "   Base: %s\n", k.Container.Name)
		if len(k.Items) > 0 {
			items := make([]string, 0, len(k.Items))
			for _, it := range k.Items {
				items = append(items, fmt.Sprintf("%dx %s", it.Quantity, it.Component.Name))
			}
			fmt.Fprintf(b, "   Itens: %s\n", strings.Join(items, ", "))
		}
		if k.Wrapper != nil {
			fmt.Fprintf(b, "   Embalagem: %s\n", k.Wrapper.Name)
		}
		if k.Filler != nil {
			fmt.Fprintf(b, "   Enchimento: %s\n", k.Filler.Name)
		}
		fmt.Fprintf(b, "   Laço: %s\n", ribbonLabel(k.Ribbon))
	case cart.LineRibbon:
		r := l.Ribbon
		fmt.Fprintf(b, "   Fita: %s, %s, tamanho %s\n", r.Material.Name, r.Style, r.Size)
	case cart.LineBalloon:
		bl := l.Balloon
		helium := "sem gás hélio"
		if bl.Helium {
			helium = "com gás hélio"
		}
		fmt.Fprintf(b, "   Montagem: %s, %s\n", bl.Arrangement, helium)
	}
}

func ribbonLabel(r cart.KitRibbon) string {
	switch r.Kind {
	case "none":
		return "sem laço"
	case "pull_bow", "stock_bow":
		if r.Accessory != nil {
			return "pronto, " + r.Accessory.Name
		}
		return "pronto"
	case "custom":
		label := fmt.Sprintf("personalizado %s, tamanho %s", r.Style, r.Size)
		if r.Primary != nil {
			label += ", " + r.Primary.Name
		}
		if r.Secondary != nil {
			label += " e " + r.Secondary.Name
		}
		return label
	}
	return r.Kind
}

// ChatLink builds the wa.me link that opens a chat with phone, pre-filled
// with text.
func ChatLink(phone, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return "https://wa.me/" + phone + "?text=" + escaped
}
