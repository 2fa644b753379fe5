package api

import (
	"context"                    // Stream lifetime
	"net/http"                   // Origin checks
	"storefront/internal/domain" // Importing domain models
	"storefront/internal/store"  // Store facade
	"time"                       // Write deadlines

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/gorilla/websocket" // WebSocket transport
	"github.com/sirupsen/logrus"   // Logging library
)

const (
	writeWait  = 10 * time.Second // Deadline for a single frame
	pingPeriod = 30 * time.Second // Keepalive interval
)

// newUpgrader accepts handshakes from the configured origins. Requests with
// no Origin header come from non-browser clients and are let through.
func newUpgrader(origins []string) *websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		allowed[origin] = struct{}{}
	}
	anyOrigin := allowsAnyOrigin(origins)
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if anyOrigin || origin == "" {
				return true
			}
			_, ok := allowed[origin]
			return ok
		},
	}
}

// streamLive upgrades the request and writes every snapshot of the live
// query as a JSON text frame until the client goes away or the store closes
func streamLive[T any](c *gin.Context, up *websocket.Upgrader, open func(ctx context.Context) (*store.Live[T], error)) {
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return // Upgrade already replied with an HTTP error, 403 for a foreign origin
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	live, err := open(ctx)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()), time.Now().Add(writeWait))
		return
	}
	defer live.Cancel()

	// Drain client frames so close and pong are processed
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case snap, ok := <-live.Updates():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if snap.Err != nil {
				logrus.WithFields(logrus.Fields{
					"path":  c.FullPath(),     // Route
					"error": snap.Err.Error(), // Error message
				}).Error("Live query failed")
				_ = conn.WriteJSON(gin.H{"error": "Live query failed"})
				return
			}
			if err := conn.WriteJSON(snap.Value); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// LiveCartHandler streams the session user's cart view
func LiveCartHandler(s *store.Store, up *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		streamLive(c, up, func(ctx context.Context) (*store.Live[*domain.CartView], error) {
			return s.WatchCart(ctx, userID)
		})
	}
}

// LiveOrdersHandler streams the session user's order summaries
func LiveOrdersHandler(s *store.Store, up *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		streamLive(c, up, func(ctx context.Context) (*store.Live[[]domain.OrderSummary], error) {
			return s.WatchOrders(ctx, userID)
		})
	}
}

// LiveWishlistHandler streams the session user's wishlist
func LiveWishlistHandler(s *store.Store, up *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		streamLive(c, up, func(ctx context.Context) (*store.Live[[]domain.Wishlist], error) {
			return s.WatchWishlist(ctx, userID)
		})
	}
}

// LiveAddressesHandler streams the session user's address book
func LiveAddressesHandler(s *store.Store, up *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		streamLive(c, up, func(ctx context.Context) (*store.Live[[]domain.Address], error) {
			return s.WatchAddresses(ctx, userID)
		})
	}
}

// LiveProductsHandler streams a filtered product listing
func LiveProductsHandler(s *store.Store, up *websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, ok := productFilter(c)
		if !ok {
			return
		}
		streamLive(c, up, func(ctx context.Context) (*store.Live[[]domain.Product], error) {
			return s.WatchProducts(ctx, filter)
		})
	}
}
