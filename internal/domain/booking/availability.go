package booking

import "fmt"

// Janela fixa de atendimento. Não há checagem de conflito contra
// agendamentos existentes; a grade é um recorte do expediente.
const (
	OpeningHour = 9
	ClosingHour = 18

	defaultDurationMinutes = 30
)

// Slots devolve a grade de horários do dia para um serviço com a
// duração dada: um slot em ponto por hora e, para serviços com menos
// de uma hora, um slot extra deslocado pela duração dentro da mesma
// hora. A grade é recalculada a cada chamada.
func Slots(durationMinutes int) []string {
	if durationMinutes <= 0 {
		durationMinutes = defaultDurationMinutes
	}

	slots := make([]string, 0, (ClosingHour-OpeningHour)*2)
	for hour := OpeningHour; hour < ClosingHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d:00", hour))
		if durationMinutes < 60 {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, durationMinutes))
		}
	}
	return slots
}
