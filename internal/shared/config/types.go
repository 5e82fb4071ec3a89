package config

import "fmt"

type ServerConfig struct {
	Mode     string `mapstructure:"mode"`
	Timezone string `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether a redis backend is configured at all.
// Without one the job lock degrades to best-effort single instance.
func (r *RedisConfig) Enabled() bool {
	return r.Host != ""
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address"`
	FromName     string `mapstructure:"from_name"`
}

// NotificationConfig controls the retry behavior of the notifier decorator.
type NotificationConfig struct {
	MaxRetries        int `mapstructure:"max_retries"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds"`
}

// SchedulerConfig holds the firing times of the daily subscription jobs
// plus the distributed-lock and persistence knobs.
type SchedulerConfig struct {
	NotifyHour               int  `mapstructure:"notify_hour"`
	NotifyMinute             int  `mapstructure:"notify_minute"`
	ReapHour                 int  `mapstructure:"reap_hour"`
	ReapMinute               int  `mapstructure:"reap_minute"`
	HeartbeatIntervalMinutes int  `mapstructure:"heartbeat_interval_minutes"`
	PersistJobs              bool `mapstructure:"persist_jobs"`
	LockEnabled              bool `mapstructure:"lock_enabled"`
	LockTTLMinutes           int  `mapstructure:"lock_ttl_minutes"`
}

type QuotaConfig struct {
	FreePlanSlug string `mapstructure:"free_plan_slug"`
}
