package conf

import (
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Duration 配置中的时长，支持 "1.5s" 字符串或纳秒整数
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := jsoniter.Unmarshal(b, &s); err != nil {
		var n int64
		if err := jsoniter.Unmarshal(b, &n); err != nil {
			return err
		}
		*d = Duration(n)
		return nil
	}
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(time.Duration(d).String())
}

// AsDuration 转为 time.Duration
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

// Bootstrap 根配置
type Bootstrap struct {
	Server *Server `json:"server"`
	Data   *Data   `json:"data"`
	Engine *Engine `json:"engine"`
	Log    *Log    `json:"log"`
	Notify *Notify `json:"notify"`
}

type Server struct {
	Http *Server_HTTP `json:"http"`
	Grpc *Server_GRPC `json:"grpc"`
}

type Server_HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Server_GRPC struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
}

type Data struct {
	Database *Data_Database `json:"database"`
	Redis    *Data_Redis    `json:"redis"`
	S3       *Data_S3       `json:"s3"`
	Rgs      *Data_RGS      `json:"rgs"`
}

type Data_Database struct {
	Driver       string `json:"driver"`
	Source       string `json:"source"`
	MaxIdleConns int32  `json:"max_idle_conns"`
	MaxOpenConns int32  `json:"max_open_conns"`
}

type Data_Redis struct {
	Addr         []string `json:"addr"`
	Password     string   `json:"password"`
	Db           int32    `json:"db"`
	ReadTimeout  Duration `json:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout"`
}

type Data_S3 struct {
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	Endpoint        string `json:"endpoint"`
	AccessKeyId     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
	Prefix          string `json:"prefix"`
}

// Data_RGS 远端结果服务，ApiUrl 为空时使用本地结果源
type Data_RGS struct {
	ApiUrl       string   `json:"api_url"`
	LaunchUrl    string   `json:"launch_url"`
	Merchant     string   `json:"merchant"`
	Member       string   `json:"member"`
	Secret       string   `json:"secret"`
	SignRequired bool     `json:"sign_required"`
	Timeout      Duration `json:"timeout"`
	MaxConns     int32    `json:"max_conns"`
}

func (x *Data_RGS) GetApiUrl() string {
	if x == nil {
		return ""
	}
	return x.ApiUrl
}

// Engine 牌局引擎配置
type Engine struct {
	FrameRate     int32    `json:"frame_rate"`
	SpinTimeout   Duration `json:"spin_timeout"`
	MaxCredit     float64  `json:"max_credit"`
	MaxTables     int32    `json:"max_tables"`
	Workers       int32    `json:"workers"`
	TableIdleTTL  Duration `json:"table_idle_ttl"`
	CleanInterval Duration `json:"clean_interval"`

	Autoplay *Engine_Autoplay  `json:"autoplay"`
	Timing   *Engine_Timing    `json:"timing"`
	BigWin   *Engine_BigWin    `json:"big_win"`
	Reel     *Engine_Reel      `json:"reel"`
	Turbo    *Engine_Reel      `json:"turbo"`
	BetSizes []*Engine_BetSize `json:"bet_sizes"`
}

// Engine_BetSize 覆盖游戏模块内置的下注档位
type Engine_BetSize struct {
	GameId int64     `json:"game_id"`
	Sizes  []float64 `json:"sizes"`
}

type Engine_Autoplay struct {
	WinIdleDelay   Duration `json:"win_idle_delay"`
	NoWinIdleDelay Duration `json:"no_win_idle_delay"`
	FeatureDelay   Duration `json:"feature_delay"`
}

type Engine_Timing struct {
	LineDelay        Duration `json:"line_delay"`
	LayoutDelay      Duration `json:"layout_delay"`
	FiveLineDelay    Duration `json:"five_line_delay"`
	FeatureTrigger   Duration `json:"feature_trigger"`
	FeatureTranslate Duration `json:"feature_translate"`
	FeatureRetrigger Duration `json:"feature_retrigger"`
	FeatureResult    Duration `json:"feature_result"`
	ShowJackpot      Duration `json:"show_jackpot"`
	ShowRedPacket    Duration `json:"show_red_packet"`
	ShowUserCoin     Duration `json:"show_user_coin"`
}

// Engine_BigWin 五档大奖阈值（赢分/下注倍数）
type Engine_BigWin struct {
	Thresholds   []float64 `json:"thresholds"`
	TierDuration Duration  `json:"tier_duration"`
}

// Engine_Reel 滚轴运动参数（像素/帧）
type Engine_Reel struct {
	SymbolHeight    float64 `json:"symbol_height"`
	MaxSpeed        float64 `json:"max_speed"`
	Accel           float64 `json:"accel"`
	Decel           float64 `json:"decel"`
	MinSpeed        float64 `json:"min_speed"`
	PullBack        float64 `json:"pull_back"`
	MoveBudget      int32   `json:"move_budget"`
	Stagger         int32   `json:"stagger"`
	ShiftsPerTick   int32   `json:"shifts_per_tick"`
	SettleThreshold float64 `json:"settle_threshold"`
	BounceAmplitude float64 `json:"bounce_amplitude"`
	BounceTicks     int32   `json:"bounce_ticks"`
}

type Log struct {
	Mode       int32  `json:"mode"`
	Level      string `json:"level"`
	App        string `json:"app"`
	Dir        string `json:"dir"`
	File       bool   `json:"file"`
	Json       bool   `json:"json"`
	MaxSizeMb  int32  `json:"max_size_mb"`
	MaxBackups int32  `json:"max_backups"`
	MaxAgeDays int32  `json:"max_age_days"`
}

type Notify struct {
	Enabled       bool   `json:"enabled"`
	WebhookUrl    string `json:"webhook_url"`
	SigningSecret string `json:"signing_secret"`
	Prefix        string `json:"prefix"`
}

func (x *Notify) GetWebhookUrl() string {
	if x == nil {
		return ""
	}
	return x.WebhookUrl
}

func (x *Notify) GetSigningSecret() string {
	if x == nil {
		return ""
	}
	return x.SigningSecret
}

func (x *Notify) GetPrefix() string {
	if x == nil {
		return ""
	}
	return x.Prefix
}
