package common

type Module string

const (
	ModuleAlkanes Module = "alkanes"
)

func (m Module) String() string {
	return string(m)
}
