package payment

import (
	"context"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/barbererp/backend/internal/httperr"
)

// PixCode é o retorno do serviço de cobrança: o "copia e cola" e a
// imagem do QR em base64, prontos para renderizar.
type PixCode struct {
	QRCodeBase64 string `json:"qrCode"`
	CopiaECola   string `json:"copiaECola"`
	TicketURL    string `json:"ticket_url,omitempty"`
}

// CodeRequester isola o provedor de cobrança; uma única ida e
// volta, sem retry automático.
type CodeRequester interface {
	RequestCode(ctx context.Context, total float64, description string) (*PixCode, error)
}

// ======================================================
// Mercado Pago
// ======================================================

type PixClient struct {
	payments   mppayment.Client
	payerEmail string
}

func NewPixClient(accessToken, payerEmail string) (*PixClient, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, err
	}

	return &PixClient{
		payments:   mppayment.NewClient(cfg),
		payerEmail: payerEmail,
	}, nil
}

func (c *PixClient) RequestCode(ctx context.Context, total float64, description string) (*PixCode, error) {
	resource, err := c.payments.Create(ctx, mppayment.Request{
		TransactionAmount: total,
		Description:       description,
		PaymentMethodID:   "pix",
		Payer: &mppayment.PayerRequest{
			Email: c.payerEmail,
		},
	})
	if err != nil {
		return nil, err
	}

	data := resource.PointOfInteraction.TransactionData
	if data.QRCode == "" {
		return nil, httperr.ErrBusiness("pix_unavailable")
	}

	return &PixCode{
		QRCodeBase64: data.QRCodeBase64,
		CopiaECola:   data.QRCode,
		TicketURL:    data.TicketURL,
	}, nil
}
