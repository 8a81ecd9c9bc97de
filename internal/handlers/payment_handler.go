package handlers

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"

	domain "github.com/barbererp/backend/internal/domain/appointment"
	"github.com/barbererp/backend/internal/httperr"
	"github.com/barbererp/backend/internal/middleware"
	"github.com/barbererp/backend/internal/payment"
	paymentuc "github.com/barbererp/backend/internal/usecase/payment"
)

// ======================================================
// SESSION STORE
// ======================================================

// paymentStore guarda o fluxo de pagamento em andamento de cada
// cliente; um cliente paga um agendamento por vez. O lock do mapa
// cobre apenas a busca da sessão; a chamada ao provedor e as
// escritas rodam sob o lock da sessão do próprio cliente.
type paymentSession struct {
	mu   sync.Mutex
	flow *payment.Orchestrator
}

type paymentStore struct {
	mu       sync.Mutex
	sessions map[string]*paymentSession
}

func newPaymentStore() *paymentStore {
	return &paymentStore{sessions: make(map[string]*paymentSession)}
}

func (s *paymentStore) session(clientID string) *paymentSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[clientID]
	if !ok {
		sess = &paymentSession{flow: payment.NewOrchestrator()}
		s.sessions[clientID] = sess
	}
	return sess
}

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	repo    domain.Repository
	pix     payment.CodeRequester
	confirm *paymentuc.ConfirmPayment
	store   *paymentStore
}

func NewPaymentHandler(
	repo domain.Repository,
	pix payment.CodeRequester,
	confirm *paymentuc.ConfirmPayment,
) *PaymentHandler {
	return &PaymentHandler{
		repo:    repo,
		pix:     pix,
		confirm: confirm,
		store:   newPaymentStore(),
	}
}

func (h *PaymentHandler) withFlow(c *gin.Context, fn func(o *payment.Orchestrator)) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	sess := h.store.session(clientID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	fn(sess.flow)
}

func flowResponse(o *payment.Orchestrator) gin.H {
	resp := gin.H{"state": o.State()}
	if ap := o.Appointment(); ap != nil {
		resp["appointment"] = ap
	}
	if code := o.Code(); code != nil {
		resp["pix"] = code
	}
	return resp
}

// ======================================================
// START
// ======================================================

type startPaymentRequest struct {
	AppointmentID string `json:"appointment_id" binding:"required"`
}

// Start seleciona o agendamento pendente e pede o código PIX ao
// provedor. Uma única ida e volta: em falha o fluxo volta a idle e
// o retry é uma nova chamada do usuário.
func (h *PaymentHandler) Start(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	var req startPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ap, err := h.repo.GetClientAppointment(c.Request.Context(), clientID, req.AppointmentID)
	if err != nil {
		httperr.NotFound(c, "appointment_not_found", "Agendamento não encontrado.")
		return
	}

	h.withFlow(c, func(o *payment.Orchestrator) {
		if err := o.Start(ap); err != nil {
			httperr.WriteBusiness(c, err)
			return
		}

		description := fmt.Sprintf("Pagamento - %s", ap.Service.Name)

		code, err := h.pix.RequestCode(c.Request.Context(), ap.Service.Price, description)
		if err != nil {
			o.Fail()
			if httperr.WriteBusiness(c, err) {
				return
			}
			httperr.BadGateway(c, "pix_request_failed", "Erro ao gerar o código de pagamento.")
			return
		}

		if err := o.AttachCode(code); err != nil {
			o.Fail()
			httperr.WriteBusiness(c, err)
			return
		}

		c.JSON(200, flowResponse(o))
	})
}

// ======================================================
// STATE
// ======================================================

func (h *PaymentHandler) State(c *gin.Context) {
	h.withFlow(c, func(o *payment.Orchestrator) {
		c.JSON(200, flowResponse(o))
	})
}

// ======================================================
// CONFIRM
// ======================================================

// Confirm é a ação explícita "já paguei": grava venda + item +
// baixa do agendamento e só então avança o fluxo. Em falha o
// diálogo permanece aberto exibindo o código; em sucesso o diálogo
// fecha e o próximo pagamento do cliente começa do zero.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	h.withFlow(c, func(o *payment.Orchestrator) {
		sale, err := h.confirm.Execute(c.Request.Context(), o)
		if err != nil {
			if httperr.WriteBusiness(c, err) {
				return
			}
			httperr.Internal(c, "failed_to_confirm_payment", "Erro ao confirmar pagamento.")
			return
		}

		c.JSON(200, gin.H{
			"state": o.State(),
			"sale":  sale,
		})

		o.Reset()
	})
}

// ======================================================
// CLOSE
// ======================================================

func (h *PaymentHandler) Close(c *gin.Context) {
	h.withFlow(c, func(o *payment.Orchestrator) {
		o.Reset()
		c.JSON(200, flowResponse(o))
	})
}

// ======================================================
// PIX DIRETO
// ======================================================

type pixRequest struct {
	Total     float64 `json:"total" binding:"required,gt=0"`
	Descricao string  `json:"descricao"`
}

// Pix gera um código de cobrança avulso, fora do fluxo de
// agendamento (usado pelo caixa).
func (h *PaymentHandler) Pix(c *gin.Context) {
	var req pixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	code, err := h.pix.RequestCode(c.Request.Context(), req.Total, req.Descricao)
	if err != nil {
		if httperr.WriteBusiness(c, err) {
			return
		}
		httperr.BadGateway(c, "pix_request_failed", "Erro ao gerar o código de pagamento.")
		return
	}

	c.JSON(200, code)
}
