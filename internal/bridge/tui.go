package bridge

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"

	"docchat/internal/debug"
	"docchat/internal/pubsub"
)

// TUIBridge subscribes to all Hub brokers and forwards events to tea.Program.
// It handles the conversion from domain events to Bubble Tea messages.
type TUIBridge struct {
	hub     *pubsub.Hub
	program *tea.Program

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewTUIBridge creates a new TUI bridge.
func NewTUIBridge(hub *pubsub.Hub, program *tea.Program) *TUIBridge {
	return &TUIBridge{
		hub:     hub,
		program: program,
	}
}

// Start begins forwarding events to the TUI.
// Call Stop() to gracefully shut down.
func (b *TUIBridge) Start(ctx context.Context) {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(4)
	go b.subscribeAuth()
	go b.subscribeDocument()
	go b.subscribeChat()
	go b.subscribeNotice()

	debug.Event("bridge", "start", "TUI bridge started")
}

// Stop gracefully shuts down the bridge.
func (b *TUIBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
	debug.Event("bridge", "stop", "TUI bridge stopped")
}

func (b *TUIBridge) subscribeAuth() {
	defer b.wg.Done()

	events := b.hub.Auth.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.program.Send(AuthEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeDocument() {
	defer b.wg.Done()

	events := b.hub.Document.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.program.Send(DocumentEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeChat() {
	defer b.wg.Done()

	events := b.hub.Chat.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.program.Send(ChatEventMsg{Event: event})
		}
	}
}

func (b *TUIBridge) subscribeNotice() {
	defer b.wg.Done()

	events := b.hub.Notice.Subscribe(b.ctx)
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.program.Send(NoticeEventMsg{Event: event})
		}
	}
}
