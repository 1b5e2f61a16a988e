package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"reelflow/internal/conf"
	"reelflow/pkg/xgo"

	"github.com/google/wire"
	jsoniter "github.com/json-iterator/go"
)

var ProviderSet = wire.NewSet(NewFeishu)

// alarmWindow 同一原因的告警最短间隔
const alarmWindow = time.Minute

type Feishu struct {
	WebhookURL    string
	SigningSecret string
	Prefix        string
	Client        *http.Client
}

func NewFeishu(c *conf.Notify) Notifier {
	if c == nil || !c.Enabled || strings.TrimSpace(c.GetWebhookUrl()) == "" {
		return Noop{}
	}
	return Throttle(&Feishu{
		WebhookURL:    strings.TrimSpace(c.GetWebhookUrl()),
		SigningSecret: strings.TrimSpace(c.GetSigningSecret()),
		Prefix:        strings.TrimSpace(c.GetPrefix()),
		Client:        &http.Client{Timeout: 10 * time.Second},
	}, alarmWindow)
}

func (f *Feishu) Send(ctx context.Context, msg *Message) error {
	if f.WebhookURL == "" || msg == nil {
		return nil
	}

	content := msg.Content
	if content == "" {
		content = msg.Title
	}
	title := msg.Title
	if title == "" {
		title = "通知"
	}
	if p := strings.TrimSpace(f.Prefix); p != "" {
		title = p + " " + title
	}

	payload := map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"config":   map[string]bool{"wide_screen_mode": true},
			"header":   map[string]any{"title": map[string]string{"tag": "plain_text", "content": title}, "template": msg.Level.template()},
			"elements": []map[string]any{{"tag": "div", "text": map[string]string{"tag": "lark_md", "content": content}}},
		},
	}
	if f.SigningSecret != "" {
		ts := strconv.FormatInt(time.Now().Unix(), 10)
		payload["timestamp"] = ts
		payload["sign"] = f.sign(ts)
	}

	body, _ := jsoniter.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, f.WebhookURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feishu: status %d", resp.StatusCode)
	}
	var r struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	_ = jsoniter.NewDecoder(resp.Body).Decode(&r)
	if r.Code != 0 {
		return fmt.Errorf("feishu: code=%d msg=%s", r.Code, r.Msg)
	}
	return nil
}

// sign 飞书加签，与 scripts/feishu-test.sh 一致：HMAC-SHA256(key=timestamp+\n+secret, message="")
func (f *Feishu) sign(ts string) string {
	key := ts + "\n" + f.SigningSecret
	h := hmac.New(sha256.New, []byte(key))
	h.Write(nil)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// AlarmReport 牌局致命错误上下文
type AlarmReport struct {
	TableID  string
	GameID   int64
	RoundID  string
	State    string
	Reason   string
	Detail   string
	Bet      string
	Spins    int64
	Watchdog time.Duration
}

// BuildAlarmMessage 构建致命错误告警的 Markdown 消息
func BuildAlarmMessage(r *AlarmReport) *Message {
	if r == nil {
		return &Message{Level: LevelAlarm, Title: "牌局告警"}
	}
	lines := []string{
		fmt.Sprintf("**桌号**：%s", r.TableID),
		fmt.Sprintf("**游戏ID**：%d", r.GameID),
		fmt.Sprintf("**局号**：%s", r.RoundID),
		fmt.Sprintf("**状态**：%s", r.State),
		fmt.Sprintf("**原因**：%s", r.Reason),
		fmt.Sprintf("**详情**：%s", r.Detail),
		fmt.Sprintf("**下注**：%s", r.Bet),
		fmt.Sprintf("**累计转动**：%d", r.Spins),
		fmt.Sprintf("**等待时长**：%s", xgo.ShortDuration(r.Watchdog)),
	}
	return &Message{Level: LevelAlarm, Title: "牌局告警 " + r.Reason, Content: strings.Join(lines, "\n")}
}
