package payment

import (
	"strings"
	"testing"

	"github.com/momai-ledger/momai/internal/domain"
)

func TestUPILink(t *testing.T) {
	got := UPILink("7046550870@ybl", "Momai Cattelfood", 300)
	want := "upi://pay?pa=7046550870@ybl&pn=Momai+Cattelfood&am=300&cu=INR&tn=PaymentToMomai"
	if got != want {
		t.Errorf("UPILink = %q, want %q", got, want)
	}

	if got := UPILink("", "Momai Cattelfood", 300); got != "" {
		t.Errorf("UPILink without payee id = %q, want empty", got)
	}

	if got := UPILink("a@b", "", 50); !strings.Contains(got, "pn=Momai+Ledger") {
		t.Errorf("UPILink without business name = %q, want fallback payee name", got)
	}
}

func TestQRImageURL(t *testing.T) {
	link := UPILink("a@b", "Shop", 100)
	got := QRImageURL(link)
	if !strings.HasPrefix(got, "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=") {
		t.Errorf("QRImageURL = %q", got)
	}
	if !strings.Contains(got, "upi%3A%2F%2Fpay") {
		t.Errorf("UPI link not escaped in QR URL: %q", got)
	}
	if QRImageURL("") != "" {
		t.Error("QRImageURL of empty link should be empty")
	}
}

func TestReminderMessage(t *testing.T) {
	c := domain.Customer{Name: "Ramesh", Phone: "+919876543210", Due: 300}

	withUPI := ReminderMessage(c, "Momai Cattelfood", "7046550870@ybl")
	if !strings.Contains(withUPI, "Namaste Ramesh") {
		t.Errorf("greeting missing: %q", withUPI)
	}
	if !strings.Contains(withUPI, "₹300") {
		t.Errorf("due amount missing: %q", withUPI)
	}
	if !strings.Contains(withUPI, "upi://pay?pa=7046550870@ybl") {
		t.Errorf("payment link missing: %q", withUPI)
	}

	withoutUPI := ReminderMessage(c, "Momai Cattelfood", "")
	if strings.Contains(withoutUPI, "upi://") {
		t.Errorf("payment link present without UPI id: %q", withoutUPI)
	}
	if !strings.Contains(withoutUPI, "earliest convenience") {
		t.Errorf("plain reminder body missing: %q", withoutUPI)
	}
}

func TestWhatsAppLink(t *testing.T) {
	c := domain.Customer{Name: "Ramesh", Phone: "+91 98765-43210"}
	got := WhatsAppLink(c, "hello there")
	if !strings.HasPrefix(got, "https://wa.me/919876543210?text=") {
		t.Errorf("WhatsAppLink = %q", got)
	}
	if !strings.Contains(got, "hello+there") {
		t.Errorf("message not escaped: %q", got)
	}
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "₹0"},
		{300, "₹300"},
		{1234, "₹1,234"},
		{1234567, "₹12,34,567"},
		{-4500, "₹-4,500"},
		{99.5, "₹99.50"},
		{123456.75, "₹1,23,456.75"},
	}

	for _, tt := range tests {
		if got := FormatINR(tt.amount); got != tt.want {
			t.Errorf("FormatINR(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}
