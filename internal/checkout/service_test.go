package checkout

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrbebidas/catalog-backend/internal/cart"
	"github.com/mrbebidas/catalog-backend/internal/settings"
	"github.com/mrbebidas/catalog-backend/pkg/config"
	pkgerrors "github.com/mrbebidas/catalog-backend/pkg/errors"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
)

type fakeCartAccess struct {
	cart    *cart.Cart
	cleared bool
}

func (f *fakeCartAccess) Snapshot(ctx context.Context, token string) (*cart.Cart, error) {
	return f.cart, nil
}

func (f *fakeCartAccess) Clear(ctx context.Context, token string) (*cart.CartDTO, error) {
	f.cleared = true
	return cart.EmptyDTO(token), nil
}

type fakeSettingsReader struct {
	dto settings.StoreSettingsDTO
}

func (f *fakeSettingsReader) StoreSettings(ctx context.Context) (*settings.StoreSettingsDTO, error) {
	return &f.dto, nil
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeEmitter struct {
	events []outbox.DomainEvent
}

func (f *fakeEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	f.events = append(f.events, event)
	return nil
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{
		HandoffBaseURL:   "https://api.whatsapp.com/send",
		DefaultPhone:     "5511999999999",
		StoreDisplayName: "MR Bebidas",
	}
}

func testCart() *cart.Cart {
	return &cart.Cart{
		Token: "token-1",
		Lines: []cart.Line{
			{ProductID: uuid.New(), Name: "Cerveja Pilsen 600ml", Price: "9,90", Quantity: 2},
			{ProductID: uuid.New(), Name: "Refrigerante 2L", Price: "5,70", Quantity: 1},
		},
	}
}

func newTestService(t *testing.T, carts *fakeCartAccess, reader *fakeSettingsReader) (Service, *fakeEmitter) {
	t.Helper()
	emitter := &fakeEmitter{}
	svc, err := NewService(carts, reader, fakeTxRunner{}, emitter, testCheckoutConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, emitter
}

func TestComposeMessageFormat(t *testing.T) {
	message := ComposeMessage("MR Bebidas", "João", testCart())

	wantLines := []string{
		"Olá MR Bebidas! Gostaria de fazer um pedido:",
		"👤 *Cliente:* João",
		"🛒 *Itens:*",
		"• *2x* Cerveja Pilsen 600ml (R$ 9,90)",
		"• *1x* Refrigerante 2L (R$ 5,70)",
		"💰 *Total:* R$ 25,50",
	}
	for _, want := range wantLines {
		if !strings.Contains(message, want) {
			t.Errorf("message missing %q\nfull message:\n%s", want, message)
		}
	}
}

func TestComposeMessageUnpricedLine(t *testing.T) {
	c := testCart()
	c.Lines = append(c.Lines, cart.Line{ProductID: uuid.New(), Name: "Gelo 5kg", Price: "", Quantity: 1})

	message := ComposeMessage("MR Bebidas", "Maria", c)
	if !strings.Contains(message, "• *1x* Gelo 5kg (Consulte)") {
		t.Fatalf("expected price-on-request line, got:\n%s", message)
	}
	// the unpriced line contributes zero
	if !strings.Contains(message, "💰 *Total:* R$ 25,50") {
		t.Fatalf("unexpected total in:\n%s", message)
	}
}

func TestHandoffURLEncodesSpacesAsPercent20(t *testing.T) {
	link := HandoffURL("https://api.whatsapp.com/send", "5511999999999", "Olá MR Bebidas! Gostaria de fazer um pedido")

	if strings.Contains(link, "+") {
		t.Fatalf("expected %%20 for spaces, got form encoding: %s", link)
	}
	if !strings.Contains(link, "text=Ol%C3%A1%20MR%20Bebidas") {
		t.Fatalf("unexpected text encoding: %s", link)
	}

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("handoff url invalid: %v", err)
	}
	if got := parsed.Query().Get("text"); !strings.HasPrefix(got, "Olá MR Bebidas!") {
		t.Fatalf("message must survive the round trip, got %q", got)
	}
}

func TestComposeHappyPath(t *testing.T) {
	carts := &fakeCartAccess{cart: testCart()}
	reader := &fakeSettingsReader{dto: settings.StoreSettingsDTO{WhatsAppNumber: "5511888887777", WhatsAppConfigured: true}}
	svc, emitter := newTestService(t, carts, reader)

	result, err := svc.Compose(context.Background(), "token-1", "João")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}

	parsed, err := url.Parse(result.HandoffURL)
	if err != nil {
		t.Fatalf("handoff url invalid: %v", err)
	}
	if parsed.Host != "api.whatsapp.com" || parsed.Path != "/send" {
		t.Fatalf("unexpected handoff base %s", result.HandoffURL)
	}
	query := parsed.Query()
	if query.Get("phone") != "5511888887777" {
		t.Fatalf("expected configured number, got %q", query.Get("phone"))
	}
	if !strings.Contains(query.Get("text"), "João") {
		t.Fatal("message must survive the url round trip")
	}
	if result.TotalLabel != "R$ 25,50" {
		t.Fatalf("unexpected total label %q", result.TotalLabel)
	}
	if !carts.cleared {
		t.Fatal("cart must be cleared after compose")
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected one checkout event, got %d", len(emitter.events))
	}
}

func TestComposeDefaultsPhone(t *testing.T) {
	carts := &fakeCartAccess{cart: testCart()}
	svc, _ := newTestService(t, carts, &fakeSettingsReader{})

	result, err := svc.Compose(context.Background(), "token-1", "Ana")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	parsed, _ := url.Parse(result.HandoffURL)
	if parsed.Query().Get("phone") != "5511999999999" {
		t.Fatalf("expected config default phone, got %q", parsed.Query().Get("phone"))
	}
}

func TestComposeRejectsBlankName(t *testing.T) {
	carts := &fakeCartAccess{cart: testCart()}
	svc, _ := newTestService(t, carts, &fakeSettingsReader{})

	_, err := svc.Compose(context.Background(), "token-1", "   ")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if carts.cleared {
		t.Fatal("cart must not be cleared on rejection")
	}
}

func TestComposeRejectsEmptyCart(t *testing.T) {
	carts := &fakeCartAccess{cart: &cart.Cart{Token: "token-1"}}
	svc, _ := newTestService(t, carts, &fakeSettingsReader{})

	_, err := svc.Compose(context.Background(), "token-1", "João")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}
