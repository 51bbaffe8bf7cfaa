//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// AppEnv represents the application environment
// ENUM(local,production,development,testing)
type AppEnv string

// Platform is the chat network the bot connects to
// ENUM(discord,telegram)
type Platform string
