package data

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"reelflow/internal/biz/round"
	"reelflow/internal/biz/table"
	"reelflow/internal/conf"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	jsoniter "github.com/json-iterator/go"
)

const (
	maxConnsCap       = 5000
	defaultRGSTimeout = 10 * time.Second
)

var (
	ErrRGSUnavailable = errors.New(502, "RGS_UNAVAILABLE", "result service unavailable")
	ErrRGSRejected    = errors.New(502, "RGS_REJECTED", "result service rejected the order")

	jsonAPI = jsoniter.ConfigFastest

	jsonBufferPool = sync.Pool{
		New: func() any {
			return &bytes.Buffer{}
		},
	}
)

// BetOrderError 下注接口业务错误，按消息关键字区分重新登录/重新启动
type BetOrderError struct {
	Code          int
	Msg           string
	NeedRelogin   bool
	NeedRelaunch  bool
	SleepDuration time.Duration
}

func (e *BetOrderError) Error() string {
	return fmt.Sprintf("betorder error: code=%d msg=%s", e.Code, e.Msg)
}

// classifyBetOrder 关键字分类
func classifyBetOrder(code int, msg string) *BetOrderError {
	msg = strings.TrimSpace(msg)
	e := &BetOrderError{Code: code, Msg: msg}
	lmsg := strings.ToLower(msg)

	relaunchKeywords := []string{"连接失效", "internal error", "invalid token", "token expired", "unauthorized"}
	for _, kw := range relaunchKeywords {
		if strings.Contains(lmsg, kw) {
			e.NeedRelaunch = true
			if kw == "internal error" {
				e.SleepDuration = time.Second
			}
			return e
		}
	}
	if strings.Contains(lmsg, "limit") {
		e.NeedRelogin = true
		e.SleepDuration = 3 * time.Second
	}
	return e
}

// rgsSession 每张桌子一个会话：启动令牌 + 登录令牌
type rgsSession struct {
	launchToken string
	token       string
}

// RGSClient 远端结果服务：launch -> login -> betorder
type RGSClient struct {
	http         *http.Client
	launchURL    string
	loginURL     string
	betOrderURL  string
	merchant     string
	member       string
	secret       string
	signRequired bool

	sessions sync.Map
	log      *log.Helper
}

var _ table.ResultSource = (*RGSClient)(nil)

func NewRGSClient(c *conf.Data_RGS, logger log.Logger) *RGSClient {
	capacity := int(c.MaxConns)
	if capacity <= 0 {
		capacity = 100
	}
	if capacity > maxConnsCap {
		capacity = maxConnsCap
	}
	timeout := c.Timeout.AsDuration()
	if timeout <= 0 {
		timeout = defaultRGSTimeout
	}

	baseApiURL := strings.TrimRight(c.GetApiUrl(), "/")
	baseLaunchURL := strings.TrimRight(c.LaunchUrl, "/")
	if baseLaunchURL == "" {
		baseLaunchURL = baseApiURL
	}

	return &RGSClient{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				TLSClientConfig:     &tls.Config{InsecureSkipVerify: true},
				MaxIdleConns:        capacity,
				MaxIdleConnsPerHost: capacity,
				MaxConnsPerHost:     capacity,
				IdleConnTimeout:     30 * time.Second,
				ForceAttemptHTTP2:   true,
				TLSHandshakeTimeout: 5 * time.Second,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		launchURL:    baseLaunchURL + "/v1/game/launch",
		loginURL:     baseApiURL + "/api/member/login",
		betOrderURL:  baseApiURL + "/api/game/betorder",
		merchant:     c.Merchant,
		member:       c.Member,
		secret:       c.Secret,
		signRequired: c.SignRequired,
		log:          log.NewHelper(log.With(logger, "module", "rgs")),
	}
}

// Spin 实现 table.ResultSource；会话失效时重建一次
func (c *RGSClient) Spin(ctx context.Context, order table.SpinOrder) (*round.Result, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		sess, err := c.session(ctx, order)
		if err != nil {
			return nil, ErrRGSUnavailable.WithCause(err)
		}
		res, err := c.BetOrder(ctx, order, sess.token)
		if err == nil {
			if res.RoundID == "" {
				res.RoundID = fmt.Sprintf("%s-%d", order.TableID, order.Seq)
			}
			return res, nil
		}
		lastErr = err

		var be *BetOrderError
		if !errors.As(err, &be) {
			return nil, ErrRGSUnavailable.WithCause(err)
		}
		switch {
		case be.NeedRelaunch:
			c.sessions.Delete(order.TableID)
		case be.NeedRelogin:
			sess.token = ""
		default:
			return nil, ErrRGSRejected.WithCause(err)
		}
		c.log.Warnf("table=%s seq=%d session reset: %v", order.TableID, order.Seq, err)
		if be.SleepDuration > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(be.SleepDuration):
			}
		}
	}
	return nil, ErrRGSRejected.WithCause(lastErr)
}

// Close 释放连接
func (c *RGSClient) Close() {
	c.http.CloseIdleConnections()
}

// session 取桌子会话，缺失时 launch + login
func (c *RGSClient) session(ctx context.Context, order table.SpinOrder) (*rgsSession, error) {
	var sess *rgsSession
	if v, ok := c.sessions.Load(order.TableID); ok {
		sess = v.(*rgsSession)
	} else {
		launchToken, err := c.Launch(ctx, order.GameID, c.memberFor(order.TableID))
		if err != nil {
			return nil, err
		}
		sess = &rgsSession{launchToken: launchToken}
		c.sessions.Store(order.TableID, sess)
	}
	if sess.token == "" {
		token, err := c.Login(ctx, sess.launchToken)
		if err != nil {
			c.sessions.Delete(order.TableID)
			return nil, err
		}
		sess.token = token
	}
	return sess, nil
}

func (c *RGSClient) memberFor(tableID string) string {
	if c.member == "" {
		return tableID
	}
	return c.member + "_" + tableID
}

type launchParams struct {
	GameID    int64  `json:"gameId"`
	Merchant  string `json:"merchant"`
	Member    string `json:"member"`
	Timestamp int64  `json:"timestamp"`
}

func signForLaunch(params launchParams, secret string) string {
	sign := fmt.Sprintf("%d%s%s%d%s", params.Timestamp, params.Merchant, params.Member, params.GameID, secret)
	h := md5.New()
	h.Write([]byte(sign))
	return fmt.Sprintf("%x", h.Sum(nil))
}

type apiResponse struct {
	Code int                 `json:"code"`
	Msg  string              `json:"msg"`
	Data jsoniter.RawMessage `json:"data"`
}

func (c *RGSClient) request(ctx context.Context, apiURL string, body any, token string) (*apiResponse, error) {
	buf := jsonBufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		jsonBufferPool.Put(buf)
	}()
	if err := jsonAPI.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-token", token)
	}
	if lp, ok := body.(launchParams); ok && c.signRequired {
		if c.secret == "" {
			return nil, fmt.Errorf("sign_required=true but no secret for merchant=%s", c.merchant)
		}
		req.Header.Set("Sign", signForLaunch(lp, c.secret))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.CopyN(io.Discard, resp.Body, 1024) // 只丢弃前1KB，避免大响应体阻塞
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	var res apiResponse
	if err := jsonAPI.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Launch 返回启动链接里的 token
func (c *RGSClient) Launch(ctx context.Context, gameID int64, member string) (string, error) {
	params := launchParams{
		GameID:    gameID,
		Merchant:  c.merchant,
		Member:    member,
		Timestamp: time.Now().Unix(),
	}
	res, err := c.request(ctx, c.launchURL, params, "")
	if err != nil {
		return "", err
	}
	if res.Code != 0 {
		return "", fmt.Errorf("launch error: code=%d msg=%s", res.Code, res.Msg)
	}

	var data struct {
		LaunchUrl string `json:"launchUrl"`
	}
	_ = jsonAPI.Unmarshal(res.Data, &data)

	path, _ := url.QueryUnescape(data.LaunchUrl)
	parsed, err := url.Parse(path)
	if err != nil {
		return "", err
	}
	tk := parsed.Query().Get("token")
	if tk == "" {
		return "", fmt.Errorf("launch: empty token")
	}
	return strings.ReplaceAll(tk, " ", "+"), nil
}

func (c *RGSClient) Login(ctx context.Context, launchToken string) (string, error) {
	res, err := c.request(ctx, c.loginURL, map[string]any{"token": launchToken}, "")
	if err != nil {
		return "", err
	}
	if res.Code != 0 {
		return "", fmt.Errorf("login error: %s", res.Msg)
	}
	var data struct {
		Token string `json:"token"`
	}
	_ = jsonAPI.Unmarshal(res.Data, &data)
	return strings.ReplaceAll(data.Token, " ", "+"), nil
}

// BetOrder 下注并把 data 解码为转动结果
func (c *RGSClient) BetOrder(ctx context.Context, order table.SpinOrder, token string) (*round.Result, error) {
	purchase := 0
	if order.BuyFeature {
		purchase = 1
	}
	params := map[string]any{
		"gameId":       order.GameID,
		"baseMoney":    order.Bet.InexactFloat64(),
		"multiple":     1,
		"purchase":     purchase,
		"scene":        int32(order.Scene),
		"featureIndex": order.FeatureIndex,
		"seq":          order.Seq,
	}
	res, err := c.request(ctx, c.betOrderURL, params, token)
	if err != nil {
		return nil, err
	}
	if res.Code != 0 {
		return nil, classifyBetOrder(res.Code, res.Msg)
	}

	var out round.Result
	if err := jsonAPI.Unmarshal(res.Data, &out); err != nil {
		return nil, fmt.Errorf("decode betorder: %w", err)
	}
	return &out, nil
}
