package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{} // No timeout, the chat stream can be slow
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	color.Cyan("Starting Chat API Test\n")

	email := os.Getenv("TEST_EMAIL")
	password := os.Getenv("TEST_PASSWORD")
	if email == "" || password == "" {
		color.Red("Set TEST_EMAIL and TEST_PASSWORD first")
		os.Exit(1)
	}

	// 1. Login (issues an OTP challenge)
	color.Yellow("\n1. Login")
	resp, body, err := sendRequest("POST", "/auth/login", "", map[string]interface{}{
		"email":    email,
		"password": password,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var loginResp map[string]interface{}
	json.Unmarshal(body, &loginResp)
	prettyPrint(loginResp)

	// 2. Submit the OTP from stdin (check the dev-mode log or inbox)
	color.Yellow("\n2. Enter the OTP code:")
	reader := bufio.NewReader(os.Stdin)
	otp, _ := reader.ReadString('\n')
	otp = strings.TrimSpace(otp)

	resp, body, err = sendRequest("POST", "/auth/verify-login-otp", "", map[string]interface{}{
		"email":    email,
		"otp_code": otp,
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)

	var verifyResp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	json.Unmarshal(body, &verifyResp)
	token := verifyResp.Data.Token
	if token == "" {
		color.Red("No token in response:")
		fmt.Println(string(body))
		os.Exit(1)
	}
	color.Green("Got session token")

	// 3. Stream a chat completion
	color.Yellow("\n3. Stream chat completion")
	streamBody, _ := json.Marshal(map[string]interface{}{
		"messages": []map[string]string{
			{"role": "user", "content": "Say hello in exactly five words."},
		},
	})
	req, _ := http.NewRequest("POST", baseURL+"/chat/stream", bytes.NewBuffer(streamBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	streamResp, err := (&http.Client{}).Do(req)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	defer streamResp.Body.Close()
	color.Green("Status: %s", streamResp.Status)

	var conversationID string
	scanner := bufio.NewScanner(streamResp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var event struct {
			Content        string `json:"content"`
			Done           bool   `json:"done"`
			ConversationId string `json:"conversation_id"`
			Error          string `json:"error"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
			continue
		}
		if event.Error != "" {
			color.Red("\nStream error: %s", event.Error)
			os.Exit(1)
		}
		if event.Done {
			conversationID = event.ConversationId
			break
		}
		fmt.Print(event.Content)
	}
	fmt.Println()
	color.Green("Stream complete, conversation: %s", conversationID)

	// 4. Fetch the recorded history
	color.Yellow("\n4. Fetch conversation history")
	resp, body, err = sendRequest("GET", "/conversations/"+conversationID, token, nil)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	color.Green("Status: %s", resp.Status)
	var historyResp map[string]interface{}
	json.Unmarshal(body, &historyResp)
	prettyPrint(historyResp)

	color.Cyan("\nDone")
}
