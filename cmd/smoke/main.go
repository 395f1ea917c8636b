// Command smoke walks a running server through the main visitor flow: browse, select,
// generate a routine, ask a follow-up, flip the direction, then forget the profile.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

type client struct {
	baseURL   string
	profileID string
	http      *http.Client
}

// Pretty print JSON helper
func prettyPrint(v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", v)
		return
	}
	fmt.Println(string(b))
}

func (c *client) send(method, path string, body interface{}) (int, map[string]interface{}, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Profile-Id", c.profileID)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded, nil
}

// step runs one request and reports its status; it returns the data field of the envelope.
func (c *client) step(title, method, path string, body interface{}) map[string]interface{} {
	color.Yellow("\n%s", title)
	status, resp, err := c.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	if status >= 400 {
		color.Red("Status: %d", status)
	} else {
		color.Green("Status: %d", status)
	}
	if resp == nil {
		return nil
	}
	if data, ok := resp["data"].(map[string]interface{}); ok {
		return data
	}
	prettyPrint(resp)
	return nil
}

func main() {
	baseURL := flag.String("url", "http://localhost:3000/api/advisor/v1", "advisor API base URL")
	profile := flag.String("profile", uuid.NewString(), "profile id to act as")
	flag.Parse()

	c := &client{baseURL: *baseURL, profileID: *profile, http: &http.Client{Timeout: 2 * time.Minute}}
	color.Cyan("Routine advisor smoke test (profile %s)", c.profileID)

	categories := c.step("1. List categories", http.MethodGet, "/catalog/categories", nil)
	prettyPrint(categories)

	products := c.step("2. List all products", http.MethodGet, "/catalog/products", nil)
	list, _ := products["products"].([]interface{})
	fmt.Printf("Products: %d\n", len(list))
	if len(list) == 0 {
		color.Red("Catalog is empty, nothing to select")
		os.Exit(1)
	}

	first, _ := list[0].(map[string]interface{})
	selection := c.step("3. Toggle the first product", http.MethodPost, "/selection/toggle", map[string]interface{}{
		"product_id": first["id"],
	})
	fmt.Printf("Selected: %v\n", selection["count"])

	routine := c.step("4. Generate a routine", http.MethodPost, "/routine", nil)
	fmt.Printf("Reply: %v\n", routine["reply"])

	answer := c.step("5. Ask a follow-up (web search)", http.MethodPost, "/chat", map[string]interface{}{
		"question":   "Can I use this every day?",
		"web_search": true,
	})
	fmt.Printf("Reply: %v\n", answer["reply"])

	direction := c.step("6. Toggle text direction", http.MethodPost, "/preferences/direction/toggle", nil)
	prettyPrint(direction)

	c.step("7. Cleanup: forget profile", http.MethodDelete, "/preferences", nil)
	color.Cyan("\nDone")
}
