// Package reader watches udev netlink events for the configured USB
// fingerprint reader so the daemon can log attach and detach without
// polling. Hotplug awareness is best effort: a failed netlink connect
// is a warning, not a fatal error.
package reader

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pilebones/go-udev/netlink"

	"whorl/internal/config"
	"whorl/internal/logging"
)

// Events receives attach and detach notifications. Callbacks run on the
// monitor goroutine and must not block.
type Events struct {
	OnAttach func(device string)
	OnDetach func(device string)
}

// Monitor listens for USB add/remove events matching the configured
// vendor id.
type Monitor struct {
	logger   *slog.Logger
	vendorID string
	events   Events

	mu      sync.Mutex
	conn    *netlink.UEventConn
	quit    chan struct{}
	running bool
}

// NewMonitor creates a monitor for the configured reader. Returns nil
// when monitoring is disabled.
func NewMonitor(cfg *config.Config, logger *slog.Logger, events Events) *Monitor {
	if cfg == nil || !cfg.Reader.Monitor {
		return nil
	}
	return &Monitor{
		logger:   logging.NewComponentLogger(logger, "reader-monitor"),
		vendorID: strings.ToLower(strings.TrimSpace(cfg.Reader.USBVendorID)),
		events:   events,
	}
}

// Start begins listening for udev netlink events.
func (m *Monitor) Start(ctx context.Context) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("failed to connect to netlink socket; reader hotplug events unavailable",
			logging.Error(err),
			logging.String(logging.FieldEventType, "netlink_connect_failed"),
			logging.String(logging.FieldErrorHint, "ensure the daemon has permission to access netlink sockets"),
			logging.String(logging.FieldImpact, "reader attach/detach will not be reported"),
		)
		return nil
	}

	m.conn = conn
	m.quit = make(chan struct{})
	m.running = true

	quit := m.quit
	go m.monitorLoop(ctx, quit)

	m.logger.Info("reader monitor started",
		logging.String(logging.FieldEventType, "reader_monitor_started"),
		logging.String("usb_vendor_id", m.vendorID),
	)
	return nil
}

// Stop shuts down the monitor. Safe to call repeatedly.
func (m *Monitor) Stop() {
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	if m.quit != nil {
		close(m.quit)
		m.quit = nil
	}
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	m.running = false

	m.logger.Info("reader monitor stopped",
		logging.String(logging.FieldEventType, "reader_monitor_stopped"),
	)
}

// Running reports whether the monitor is active.
func (m *Monitor) Running() bool {
	if m == nil {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) monitorLoop(ctx context.Context, quit <-chan struct{}) {
	queue := make(chan netlink.UEvent)
	errs := make(chan error)

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()
	if conn == nil {
		return
	}

	monitorQuit := conn.Monitor(queue, errs, m.matcher())

	for {
		select {
		case <-ctx.Done():
			close(monitorQuit)
			return
		case <-quit:
			close(monitorQuit)
			return
		case uevent := <-queue:
			m.handleEvent(uevent)
		case err := <-errs:
			m.logger.Warn("reader monitor error",
				logging.Error(err),
				logging.String(logging.FieldEventType, "reader_monitor_error"),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "reader events may be missed"),
			)
		}
	}
}

// matcher selects USB add/remove events for the configured vendor.
func (m *Monitor) matcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	env := map[string]string{"SUBSYSTEM": "usb"}
	if m.vendorID != "" {
		env["ID_VENDOR_ID"] = m.vendorID
	}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env:    env,
	})
	return rules
}

func (m *Monitor) handleEvent(uevent netlink.UEvent) {
	device := deviceName(uevent)
	switch uevent.Action {
	case netlink.ADD:
		m.logger.Info("reader attached",
			logging.String(logging.FieldEventType, "reader_attached"),
			logging.String("device", device),
		)
		if m.events.OnAttach != nil {
			m.events.OnAttach(device)
		}
	case netlink.REMOVE:
		m.logger.Info("reader detached",
			logging.String(logging.FieldEventType, "reader_detached"),
			logging.String("device", device),
		)
		if m.events.OnDetach != nil {
			m.events.OnDetach(device)
		}
	default:
		m.logger.Debug("ignoring reader event",
			logging.String("action", string(uevent.Action)),
			logging.String("device", device),
		)
	}
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	return uevent.KObj
}
