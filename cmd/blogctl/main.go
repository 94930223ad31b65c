// blogctl 博客命令行客户端：注册/登录后对博文做增删改查。
// 令牌缓存在 ~/.blogctl_token；本地列表快照经 feed 纯归约器维护。
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/d60-Lab/blog-api/internal/client/feed"
	"github.com/d60-Lab/blog-api/internal/model"
)

const defaultAddr = "http://localhost:5000"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Count   *int            `json:"count,omitempty"`
}

type authPayload struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type client struct {
	addr  string
	token string
	http  *http.Client
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	addr := os.Getenv("BLOGCTL_ADDR")
	if addr == "" {
		addr = defaultAddr
	}
	c := &client{addr: addr, token: loadToken(), http: http.DefaultClient}

	var err error
	switch os.Args[1] {
	case "register":
		err = c.register()
	case "login":
		err = c.login()
	case "logout":
		err = c.logout()
	case "me":
		err = c.me()
	case "list":
		err = c.list()
	case "get":
		err = c.get(os.Args[2:])
	case "create":
		err = c.create(os.Args[2:])
	case "edit":
		err = c.edit(os.Args[2:])
	case "delete":
		err = c.remove(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: blogctl <command> [args]

commands:
  register            注册并登录
  login               登录
  logout              退出（丢弃本地令牌）
  me                  当前用户
  list                博文列表（最新在前）
  get <id>            博文详情
  create <title>      创建博文（正文从 stdin 读取）
  edit <id> [-title t] [-content c]
  delete <id>`)
}

func (c *client) register() error {
	in := bufio.NewReader(os.Stdin)
	name := prompt(in, "name: ")
	email := prompt(in, "email: ")
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	env, err := c.do(http.MethodPost, "/api/auth/register",
		map[string]string{"name": name, "email": email, "password": password})
	if err != nil {
		return err
	}
	return c.storeAuth(env)
}

func (c *client) login() error {
	in := bufio.NewReader(os.Stdin)
	email := prompt(in, "email: ")
	password, err := promptPassword("password: ")
	if err != nil {
		return err
	}
	env, err := c.do(http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password})
	if err != nil {
		return err
	}
	return c.storeAuth(env)
}

func (c *client) storeAuth(env *envelope) error {
	var payload authPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return err
	}
	if err := saveToken(payload.Token); err != nil {
		return err
	}
	fmt.Printf("logged in as %s <%s>\n", payload.User.Name, payload.User.Email)
	return nil
}

func (c *client) logout() error {
	// 尽力通知服务端；无状态令牌，真正的退出是丢弃本地令牌
	_, _ = c.do(http.MethodPost, "/api/auth/logout", nil)
	_ = os.Remove(tokenPath())
	_ = os.Remove(feedPath())
	fmt.Println("logged out")
	return nil
}

func (c *client) me() error {
	env, err := c.do(http.MethodGet, "/api/auth/me", nil)
	if err != nil {
		return err
	}
	var u model.User
	if err := json.Unmarshal(env.Data, &u); err != nil {
		return err
	}
	fmt.Printf("%s <%s> (id %s)\n", u.Name, u.Email, u.ID)
	return nil
}

func (c *client) list() error {
	env, err := c.do(http.MethodGet, "/api/posts", nil)
	if err != nil {
		return err
	}
	var posts []model.PostView
	if err := json.Unmarshal(env.Data, &posts); err != nil {
		return err
	}
	saveFeed(posts)
	render(posts)
	return nil
}

func (c *client) get(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: blogctl get <id>")
	}
	env, err := c.do(http.MethodGet, "/api/posts/"+args[0], nil)
	if err != nil {
		return err
	}
	var p model.PostView
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return err
	}
	fmt.Printf("# %s\n", p.Title)
	if p.Author != nil {
		fmt.Printf("by %s <%s>, %s\n\n", p.Author.Name, p.Author.Email, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println(p.Content)
	return nil
}

func (c *client) create(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: blogctl create <title>  (content on stdin)")
	}
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return err
	}
	env, err := c.do(http.MethodPost, "/api/posts",
		map[string]string{"title": args[0], "content": strings.TrimSpace(string(content))})
	if err != nil {
		return err
	}
	var p model.PostView
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return err
	}
	render(applyAndSave(feed.Created{Post: p}))
	return nil
}

func (c *client) edit(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: blogctl edit <id> [-title t] [-content c]")
	}
	id := args[0]
	body := map[string]string{}
	rest := args[1:]
	for i := 0; i+1 < len(rest); i += 2 {
		switch rest[i] {
		case "-title":
			body["title"] = rest[i+1]
		case "-content":
			body["content"] = rest[i+1]
		default:
			return fmt.Errorf("unknown flag %q", rest[i])
		}
	}
	env, err := c.do(http.MethodPut, "/api/posts/"+id, body)
	if err != nil {
		return err
	}
	var p model.PostView
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return err
	}
	render(applyAndSave(feed.Updated{Post: p}))
	return nil
}

func (c *client) remove(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: blogctl delete <id>")
	}
	if _, err := c.do(http.MethodDelete, "/api/posts/"+args[0], nil); err != nil {
		return err
	}
	render(applyAndSave(feed.Deleted{ID: args[0]}))
	return nil
}

func (c *client) do(method, path string, body any) (*envelope, error) {
	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.addr+path, buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", msg)
	}
	return &env, nil
}

func render(posts []model.PostView) {
	if len(posts) == 0 {
		fmt.Println("(no posts)")
		return
	}
	for _, p := range posts {
		author := "?"
		if p.Author != nil {
			author = p.Author.Name
		}
		fmt.Printf("%s  %-30s  %s  %s\n", p.ID, truncate(p.Title, 30), author, p.CreatedAt.Format("2006-01-02"))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func applyAndSave(ev feed.Event) []model.PostView {
	posts := feed.Apply(loadFeed(), ev)
	saveFeed(posts)
	return posts
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptPassword(label string) (string, error) {
	fmt.Print(label)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func tokenPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blogctl_token")
}

func feedPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".blogctl_feed.json")
}

func loadToken() string {
	raw, err := os.ReadFile(tokenPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

func saveToken(token string) error {
	return os.WriteFile(tokenPath(), []byte(token), 0o600)
}

func loadFeed() []model.PostView {
	raw, err := os.ReadFile(feedPath())
	if err != nil {
		return nil
	}
	var posts []model.PostView
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil
	}
	return posts
}

func saveFeed(posts []model.PostView) {
	if raw, err := json.Marshal(posts); err == nil {
		_ = os.WriteFile(feedPath(), raw, 0o600)
	}
}
