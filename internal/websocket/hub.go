// Cardsmith - Title Card Rendering Engine for Media Servers
// Copyright 2026 Cardsmith Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cardsmith/cardsmith

// Package websocket streams render progress to connected clients.
//
// The hub fans every event out to all clients. Delivery is best effort:
// a client whose buffer is full is dropped rather than allowed to stall
// the broadcast loop. The hub satisfies the creator's progress sink, so
// wiring it into the creator is all it takes to stream card, batch, and
// registry events.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cardsmith/cardsmith/internal/logging"
	"github.com/cardsmith/cardsmith/internal/metrics"
	"github.com/cardsmith/cardsmith/internal/models"
)

// Message types pushed to clients.
const (
	MessageTypeCardRendered      = "card_rendered"
	MessageTypeBatchStarted      = "batch_started"
	MessageTypeBatchFinished     = "batch_finished"
	MessageTypeRegistryRefreshed = "registry_refreshed"
	MessageTypePing              = "ping"
	MessageTypePong              = "pong"
)

// Message is the envelope for every websocket frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an empty hub. Call RunWithContext to start it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub loop until the context is canceled, then
// closes every client and returns ctx.Err(). Designed for supervision;
// a restart starts with an empty client set.
//
// Lifecycle events drain before broadcasts so a message never races a
// half-registered client.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Drain pending lifecycle events first.
		select {
		case client := <-h.Register:
			h.add(client)
			continue
		case client := <-h.Unregister:
			h.remove(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.add(client)
		case client := <-h.Unregister:
			h.remove(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WebsocketClients.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("Websocket client connected")
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	metrics.WebsocketClients.Set(float64(count))
	logging.Info().Int("total_clients", count).Msg("Websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	closed := h.closeAllClients()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", closed).
		Msg("Websocket hub stopped")
}

// broadcastToClients delivers one message to every client. Clients are
// walked in id order so delivery order is stable; a client with a full
// buffer is evicted instead of blocking the loop.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WebsocketDropped.Inc()
	}
	if len(toRemove) > 0 {
		metrics.WebsocketClients.Set(float64(len(h.clients)))
		logging.Warn().Int("evicted", len(toRemove)).Msg("Dropped slow websocket clients")
	}
}

func (h *Hub) closeAllClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	metrics.WebsocketClients.Set(0)
	return len(clients)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) enqueue(messageType string, data interface{}) {
	message := Message{Type: messageType, Data: data}
	select {
	case h.broadcast <- message:
		metrics.RecordWebsocketMessage(messageType)
	default:
		logging.Warn().Str("message_type", messageType).Msg("Broadcast channel full, dropping message")
	}
}

// CardRendered broadcasts one finished card report. Together with
// BatchStarted and BatchFinished this makes the hub a creator progress
// sink.
func (h *Hub) CardRendered(report models.CardReport) {
	h.enqueue(MessageTypeCardRendered, report)
}

// BatchStartedData is the payload of a batch_started message.
type BatchStartedData struct {
	Timestamp string `json:"timestamp"`
	BatchID   string `json:"batch_id"`
	Total     int    `json:"total"`
}

// BatchStarted announces a new batch to all clients.
func (h *Hub) BatchStarted(batchID string, total int) {
	h.enqueue(MessageTypeBatchStarted, BatchStartedData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		BatchID:   batchID,
		Total:     total,
	})
}

// BatchFinished broadcasts the final batch report.
func (h *Hub) BatchFinished(report models.BatchReport) {
	h.enqueue(MessageTypeBatchFinished, report)
}

// RegistryRefreshedData is the payload of a registry_refreshed message.
type RegistryRefreshedData struct {
	Timestamp string `json:"timestamp"`
	CardTypes int    `json:"card_types"`
}

// RegistryRefreshed notifies clients that the card type registry changed.
func (h *Hub) RegistryRefreshed(cardTypes int) {
	h.enqueue(MessageTypeRegistryRefreshed, RegistryRefreshedData{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		CardTypes: cardTypes,
	})
}
