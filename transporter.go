package sdm3045x

// Transporter defines the common interface for the byte-stream links
// carrying SCPI command lines to the instrument. Commands are ASCII
// text terminated by '\n' in both directions.
type Transporter interface {
	WriteCommand(cmd string) error
	Ask(cmd string) (string, error)
	Close() error
}
