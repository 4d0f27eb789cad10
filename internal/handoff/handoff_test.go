package handoff

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/festa/internal/cart"
	"github.com/dukerupert/festa/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"63", "R$ 63,00"},
		{"5.5", "R$ 5,50"},
		{"1234.5", "R$ 1.234,50"},
		{"1234567.891", "R$ 1.234.567,89"},
		{"-10", "-R$ 10,00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBRL(decimal.RequireFromString(tt.in)), tt.in)
	}
}

func sampleOrder(t *testing.T) (*domain.Order, []cart.Line) {
	t.Helper()
	delivery := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)

	kit := cart.NewKitLine("Kit personalizado - Cesta M", cart.KitDetail{
		Container: cart.ComponentRef{Name: "Cesta M"},
		Items:     []cart.KitItem{{Component: cart.ComponentRef{Name: "Chocolate"}, Quantity: 2}},
		Wrapper:   &cart.ComponentRef{Name: "Celofane"},
		Ribbon: cart.KitRibbon{
			Kind: "custom", Style: "double", Size: "M",
			Primary: &cart.ComponentRef{Name: "Cetim vermelho"},
		},
		Total: decimal.NewFromInt(63),
	})
	balloons := cart.NewBalloonLine("Balões (bouquet): 5x Látex", cart.BalloonDetail{
		Arrangement: "bouquet", Helium: true, Total: decimal.RequireFromString("27.5"),
	})
	lines := []cart.Line{kit, balloons}

	data, err := json.Marshal(lines)
	require.NoError(t, err)

	return &domain.Order{
		ID:            uuid.New(),
		Number:        42,
		CustomerName:  "Ana",
		CustomerPhone: "5511988887777",
		Notes:         "Entregar à tarde",
		DeliveryDate:  &delivery,
		Lines:         data,
		Total:         decimal.RequireFromString("90.5"),
		CreatedAt:     time.Now(),
	}, lines
}

func TestSummarize(t *testing.T) {
	o, lines := sampleOrder(t)
	s := Summarize(o, lines, "")

	assert.True(t, strings.HasPrefix(s, defaultGreeting))
	for _, want := range []string{
		"Pedido #00042",
		"Cliente: Ana (5511988887777)",
		"Entrega: 20/12/2026",
		"1x Kit personalizado - Cesta M - R$ 63,00",
		"Itens: 2x Chocolate",
		"Embalagem: Celofane",
		"Laço: personalizado double, tamanho M, Cetim vermelho",
		"Montagem: bouquet, com gás hélio",
		"Total: R$ 90,50",
		"Observações: Entregar à tarde",
	} {
		assert.Contains(t, s, want)
	}

	custom := Summarize(o, lines, "Oi, Festa!")
	assert.True(t, strings.HasPrefix(custom, "Oi, Festa!"))
}

func TestChatLink(t *testing.T) {
	link := ChatLink("5511999998888", "Pedido #1\nTotal: R$ 10,00 & mais")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511999998888?text="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")
	assert.Contains(t, link, "%0A")
	assert.Contains(t, link, "%26")
}

func TestOrderSubmittedEvent(t *testing.T) {
	o, _ := sampleOrder(t)
	o.Summary = "resumo"

	data, err := json.Marshal(newOrderSubmitted(o))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, o.ID.String(), decoded["order_id"])
	assert.Equal(t, "#00042", decoded["number"])
	assert.Equal(t, "resumo", decoded["summary"])
	assert.Len(t, decoded["lines"], 2)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := LogPublisher{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	o, _ := sampleOrder(t)

	require.NoError(t, p.Publish(context.Background(), o))
	assert.Contains(t, buf.String(), "order=#00042")
	assert.Contains(t, buf.String(), "total=90.50")
}
