package handlers

import (
	"errors"
	"fmt"
	"log"

	config "github.com/anjiri1684/private_tutor/configs"
	"github.com/anjiri1684/private_tutor/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ServeWs upgrades the connection and streams meeting events to the
// authenticated user. The first message must be {"type":"auth","token":...}.
func ServeWs(c *websocketcontrib.Conn) {
	type AuthMessage struct {
		Type  string `json:"type"`
		Token string `json:"token"`
	}
	var authMsg AuthMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	claims, err := parseToken(authMsg.Token)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}
	uidStr, ok := claims["user_id"].(string)
	if !ok {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}
	userID, err := uuid.Parse(uidStr)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": "Invalid user ID"})
		c.Close()
		return
	}

	log.Printf("WebSocket client authenticated and registered: %s", userID)
	client := &websocket.Client{UserID: userID, Conn: c}
	websocket.Register <- client
	defer func() {
		websocket.Unregister <- client
		c.Close()
	}()

	// the meeting stream is push-only; drain reads until the peer goes away
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				log.Printf("WebSocket read error for client %s: %v", userID, err)
			}
			break
		}
	}
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
