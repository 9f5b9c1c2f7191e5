package tagsio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/wader/id3edit/internal/id3v2"
)

// Config how fields are written and how directories are read
type Config struct {
	// Encoding text encoding used for written fields
	Encoding id3v2.Encoding
	// CommentLanguage 3 letter language code of written comments
	CommentLanguage string
	// Padding zero bytes written after the frames
	Padding int
	// Workers files read in parallel by ReadDir
	Workers int
}

// DefaultConfig config used when there is no config file
func DefaultConfig() Config {
	return Config{
		Encoding:        id3v2.EncodingISO88591,
		CommentLanguage: "eng",
		Padding:         0,
		Workers:         4,
	}
}

func (c *Config) UnmarshalJSON(b []byte) (err error) {
	type ConfigRaw struct {
		Encoding        string
		CommentLanguage string
		Padding         int
		Workers         int
	}
	d := DefaultConfig()
	cr := ConfigRaw{
		Encoding:        d.Encoding.String(),
		CommentLanguage: d.CommentLanguage,
		Padding:         d.Padding,
		Workers:         d.Workers,
	}
	if err := json.Unmarshal(b, &cr); err != nil {
		return err
	}

	enc, err := id3v2.ParseEncoding(cr.Encoding)
	if err != nil {
		return fmt.Errorf("Encoding: %s", err)
	}
	if len(cr.CommentLanguage) != 3 {
		return fmt.Errorf("CommentLanguage must be 3 letters is %q", cr.CommentLanguage)
	}
	if cr.Padding < 0 {
		return fmt.Errorf("Padding can't be negative")
	}
	if cr.Workers < 1 {
		return fmt.Errorf("Workers must be at least 1")
	}

	*c = Config{
		Encoding:        enc,
		CommentLanguage: cr.CommentLanguage,
		Padding:         cr.Padding,
		Workers:         cr.Workers,
	}

	return nil
}

func parseConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()

	d := json.NewDecoder(r)
	if err := d.Decode(&c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// NewConfigFromFile reads a JSON config file
func NewConfigFromFile(configPath string) (Config, error) {
	configFile, err := os.Open(configPath)
	if err != nil {
		return Config{}, err
	}
	defer configFile.Close()
	c, err := parseConfig(configFile)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", configPath)
	}

	return c, nil
}
