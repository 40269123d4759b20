package internal

type Config struct {
	Host                 string `env:"HOST,required=true"`
	Port                 int    `env:"PORT,required=true"`
	BadgerFilepath       string `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string `env:"LOG_LEVEL,required=true"`
	ConnectionBufferSize int    `env:"CONNECTION_BUFFER_SIZE,required=true"`
	MaxContentLength     int    `env:"MAX_CONTENT_LENGTH,required=true"`
}
