package mercadopago

import (
	"math"
	"strings"

	"github.com/artilheiro/store-backend/internal/application"
)

type paymentCreateBody struct {
	TransactionAmount float64   `json:"transaction_amount"`
	Token             string    `json:"token,omitempty"`
	PaymentMethodID   string    `json:"payment_method_id"`
	Installments      int       `json:"installments"`
	IssuerID          string    `json:"issuer_id,omitempty"`
	Description       string    `json:"description"`
	ExternalReference string    `json:"external_reference"`
	Payer             payerBody `json:"payer"`
	NotificationURL   string    `json:"notification_url,omitempty"`
}

type payerBody struct {
	Email          string             `json:"email"`
	EntityType     string             `json:"entity_type,omitempty"`
	FirstName      string             `json:"first_name,omitempty"`
	Identification identificationBody `json:"identification"`
	Address        *payerAddressBody  `json:"address,omitempty"`
}

type identificationBody struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type payerAddressBody struct {
	StreetName   string `json:"street_name"`
	StreetNumber string `json:"street_number"`
	ZipCode      string `json:"zip_code"`
	City         string `json:"city,omitempty"`
	FederalUnit  string `json:"federal_unit,omitempty"`
}

type paymentResponse struct {
	ID                 int64                   `json:"id"`
	Status             string                  `json:"status"`
	StatusDetail       string                  `json:"status_detail"`
	ExternalReference  string                  `json:"external_reference"`
	PointOfInteraction *pointOfInteractionBody `json:"point_of_interaction,omitempty"`
	TransactionDetails *transactionDetailsBody `json:"transaction_details,omitempty"`
}

type pointOfInteractionBody struct {
	TransactionData *transactionDataBody `json:"transaction_data,omitempty"`
}

type transactionDataBody struct {
	QRCode       string `json:"qr_code,omitempty"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
}

type transactionDetailsBody struct {
	ExternalResourceURL string `json:"external_resource_url,omitempty"`
}

type apiErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Cause   []struct {
		Code        any    `json:"code"`
		Description string `json:"description"`
	} `json:"cause,omitempty"`
}

// Detail flattens the provider's cause list into a single string.
func (e apiErrorResponse) Detail() string {
	if len(e.Cause) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Cause))
	for _, c := range e.Cause {
		if c.Description != "" {
			parts = append(parts, c.Description)
		}
	}
	if len(parts) == 0 {
		return e.Message
	}
	return strings.Join(parts, "; ")
}

// centsToAmount converts integer cents to the provider's decimal
// currency-unit representation, rounding away float noise.
func centsToAmount(cents int64) float64 {
	return math.Round(float64(cents)) / 100
}

func toPayerBody(p application.Payer, addr *application.PayerAddress) payerBody {
	identType := p.IdentType
	if identType == "" {
		identType = "CPF"
	}
	body := payerBody{
		Email: p.Email,
		Identification: identificationBody{
			Type:   identType,
			Number: digitsOnly(p.IdentNumber),
		},
	}
	if p.Name != "" {
		body.EntityType = "individual"
		body.FirstName = p.Name
	}
	if addr != nil {
		body.Address = &payerAddressBody{
			StreetName:   truncate(addr.StreetName, 256),
			StreetNumber: truncate(addr.StreetNumber, 256),
			ZipCode:      digitsOnly(addr.ZipCode),
			City:         addr.City,
			FederalUnit:  addr.FederalUnit,
		}
	}
	return body
}

func toGatewayPayment(resp *paymentResponse) *application.GatewayPayment {
	p := &application.GatewayPayment{
		ID:                resp.ID,
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
	}
	if resp.PointOfInteraction != nil && resp.PointOfInteraction.TransactionData != nil {
		td := resp.PointOfInteraction.TransactionData
		p.QRCode = td.QRCode
		p.QRCodeBase64 = td.QRCodeBase64
		p.TicketURL = td.TicketURL
	}
	if p.TicketURL == "" && resp.TransactionDetails != nil {
		p.TicketURL = resp.TransactionDetails.ExternalResourceURL
	}
	return p
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
