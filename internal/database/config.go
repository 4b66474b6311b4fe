package database

type Config struct {
	// Path to the bbolt database file
	FilePath string `envconfig:"BADMIK_DB_FILE_PATH" default:"badmik.db"`
}
