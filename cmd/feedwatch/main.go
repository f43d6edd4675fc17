// Command feedwatch is a terminal client for the realtime event stream.
// It logs in (or uses a provided access token), exchanges it for a
// single-use WebSocket ticket and prints every event the server pushes.
//
// Usage:
//
//	feedwatch -addr localhost:8370 -email test@example.com -password password123
//	feedwatch -addr localhost:8370 -token <jwt>
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
)

type event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func main() {
	addr := flag.String("addr", "localhost:8370", "server host:port")
	email := flag.String("email", "", "login email")
	password := flag.String("password", "", "login password")
	token := flag.String("token", "", "access token (skips login)")
	flag.Parse()

	log.SetFlags(0)

	accessToken := *token
	if accessToken == "" {
		if *email == "" || *password == "" {
			log.Fatal("either -token or -email/-password is required")
		}
		var err error
		accessToken, err = login(*addr, *email, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	ticket, err := fetchTicket(*addr, accessToken)
	if err != nil {
		log.Fatalf("ticket request failed: %v", err)
	}

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/api/ws/", RawQuery: "ticket=" + url.QueryEscape(ticket)}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	log.Printf("connected to %s, watching events (ctrl-c to quit)", *addr)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Printf("read: %v", err)
				return
			}
			printEvent(msg)
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-interrupt:
			// Clean close so the server flips presence to offline promptly.
			err := conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				return
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		}
	}
}

func printEvent(msg []byte) {
	var ev event
	if err := json.Unmarshal(msg, &ev); err != nil || ev.Type == "" {
		log.Printf("%s %s", time.Now().Format("15:04:05"), msg)
		return
	}
	var pretty bytes.Buffer
	if err := json.Compact(&pretty, ev.Payload); err != nil {
		pretty.Write(ev.Payload)
	}
	log.Printf("%s [%s] %s", time.Now().Format("15:04:05"), ev.Type, pretty.String())
}

func login(addr, email, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(
		fmt.Sprintf("http://%s/api/auth/login", addr),
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, b)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("login response missing token")
	}
	return out.Token, nil
}

func fetchTicket(addr, accessToken string) (string, error) {
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/ws/ticket", addr), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, b)
	}
	var out struct {
		Ticket string `json:"ticket"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Ticket == "" {
		return "", fmt.Errorf("ticket response missing ticket")
	}
	return out.Ticket, nil
}
