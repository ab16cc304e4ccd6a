package changefeed

import (
	"encoding/json"
	"github.com/rs/zerolog/log"
	"github.com/tablegate/tablegate/internal/tablegate"
	"time"
)

// Event describes one change applied through the gateway.
type Event struct {
	Operation tablegate.Operation `json:"operation"`
	Table     string              `json:"table"`
	RowKey    string              `json:"key,omitempty"`
	Changes   []Change            `json:"changes,omitempty"`
	Timestamp int64               `json:"timestamp"` // unix micros at emit time
}

// Change is the wire form of a single row mutation.
type Change struct {
	Type      string `json:"type"`
	Family    string `json:"family,omitempty"`
	Qualifier string `json:"qualifier,omitempty"`
	Value     string `json:"value,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// NewEvent stamps an event with the current time.
func NewEvent(op tablegate.Operation, table, rowKey string, mutations []tablegate.Mutation) *Event {
	return &Event{
		Operation: op,
		Table:     table,
		RowKey:    rowKey,
		Changes:   Changes(mutations),
		Timestamp: time.Now().UnixMicro(),
	}
}

// Changes converts row mutations to their wire form.
func Changes(mutations []tablegate.Mutation) []Change {
	if len(mutations) == 0 {
		return nil
	}
	out := make([]Change, 0, len(mutations))
	for _, m := range mutations {
		switch v := m.(type) {
		case tablegate.SetCell:
			out = append(out, Change{
				Type:      "set",
				Family:    v.Family,
				Qualifier: string(v.Qualifier),
				Value:     string(v.Value),
				Timestamp: v.Timestamp,
			})
		case tablegate.DeleteRow:
			out = append(out, Change{Type: "deleteRow"})
		case tablegate.DeleteCells:
			out = append(out, Change{Type: "deleteCells", Family: v.Family, Qualifier: string(v.Qualifier)})
		case tablegate.DeleteFamily:
			out = append(out, Change{Type: "deleteFamily", Family: v.Family})
		}
	}
	return out
}

// Emit queues an event for every connected subscriber. It never blocks the
// caller: when the queue is full the event is dropped and logged.
func (m *Manager) Emit(e *Event) {
	select {
	case m.emitChan <- e:
	default:
		log.Warn().Str("table", e.Table).Str("operation", string(e.Operation)).
			Msg("change feed queue full, dropping event")
	}
}

// broadcast writes the event to all connected clients.
func (m *Manager) broadcast(e *Event) {
	data, err := json.Marshal(e)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal change event")
		return
	}

	// newline framing
	message := append(data, '\n')

	// no new clients while writing
	m.clientsMux.Lock()
	defer m.clientsMux.Unlock()

	for client := range m.clients {
		_ = client.SetWriteDeadline(time.Now().Add(m.writeTimeout))
		if _, err = client.Write(message); err != nil {
			log.Debug().Err(err).Str("client", client.RemoteAddr().String()).Msg("dropping change feed client")
			_ = client.Close()
			delete(m.clients, client)
		}
	}
}
