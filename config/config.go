package config

type Config struct {
	Server   Server   `yaml:"server" validate:"required"`
	Database Database `yaml:"storage" validate:"required"`
	Secrets  Secrets  `yaml:"secrets" validate:"required"`
}

type Server struct {
	Port string `yaml:"port" comment:"Server Port" validate:"required"`
	Env  string `yaml:"env" comment:"Server Environment" validate:"required"`
}

type Database struct {
	DatabaseURL string `yaml:"database_url" comment:"Database URL" validate:"required"`
	RedisURL    string `yaml:"redis_url" comment:"Redis URL" validate:"required"`
}

type Secrets struct {
	SessionSecret string `yaml:"session_secret" comment:"HMAC secret for session tokens" validate:"required"`
	// ShareTokenSecret may be left empty, in which case the share token
	// signer falls back to environment-provided secrets.
	ShareTokenSecret string `yaml:"share_token_secret" comment:"HMAC secret for share attribution tokens"`
}
