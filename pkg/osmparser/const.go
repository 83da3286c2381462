package osmparser

type NodeType uint8

const (
	END_NODE NodeType = iota + 1
	BETWEEN_NODE
	JUNCTION_NODE
)

type Format uint8

const (
	FORMAT_PBF Format = iota
	FORMAT_XML
)

const (
	progressEvery = 50000
	defaultSpeed  = 35.0 // km/h
)
