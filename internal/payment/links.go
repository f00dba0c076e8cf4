// Package payment builds the collaborator-facing strings: the UPI
// payment request, the QR image URL, and the WhatsApp reminder deep
// link. No network calls live here.
package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/momai-ledger/momai/internal/domain"
)

const (
	qrService    = "https://api.qrserver.com/v1/create-qr-code/"
	waService    = "https://wa.me/"
	txNote       = "PaymentToMomai"
	fallbackName = "Momai Ledger"
)

// UPILink encodes a payment request for the configured payee. Returns
// the empty string when no UPI id is configured.
func UPILink(upiID, businessName string, amount float64) string {
	if upiID == "" {
		return ""
	}
	name := businessName
	if name == "" {
		name = fallbackName
	}
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		upiID, url.QueryEscape(name), formatAmount(amount), txNote)
}

// QRImageURL returns the external image-service URL rendering the UPI
// link as a scannable code, or empty when there is no link.
func QRImageURL(upiLink string) string {
	if upiLink == "" {
		return ""
	}
	return qrService + "?size=300x300&data=" + url.QueryEscape(upiLink)
}

// ReminderMessage is the prefilled WhatsApp text for a customer's
// outstanding due. When a UPI id is configured the payment link is
// embedded.
func ReminderMessage(c domain.Customer, businessName, upiID string) string {
	name := businessName
	if name == "" {
		name = fallbackName
	}

	msg := fmt.Sprintf("Namaste %s, this is a reminder regarding your pending balance of %s at %s.",
		c.Name, FormatINR(c.Due), name)

	if link := UPILink(upiID, businessName, c.Due); link != "" {
		msg += "\n\nYou can pay directly using this link:\n" + link + "\n\nThank you!"
	} else {
		msg += "\n\nPlease clear it at your earliest convenience. Thank you!"
	}
	return msg
}

// WhatsAppLink builds the messaging deep link for a customer.
func WhatsAppLink(c domain.Customer, message string) string {
	return waService + domain.PhoneDigits(c.Phone) + "?text=" + url.QueryEscape(message)
}

// FormatINR renders an amount with the rupee sign and Indian digit
// grouping (12,34,567).
func FormatINR(amount float64) string {
	s := formatAmount(amount)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s, frac = s[:i], s[i:]
	}

	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		s = strings.Join(append(groups, tail), ",")
	}
	s += frac
	if neg {
		s = "-" + s
	}
	return "₹" + s
}

// formatAmount prints whole rupees without a decimal point and keeps
// two decimals otherwise.
func formatAmount(amount float64) string {
	if amount == float64(int64(amount)) {
		return fmt.Sprintf("%d", int64(amount))
	}
	return fmt.Sprintf("%.2f", amount)
}
