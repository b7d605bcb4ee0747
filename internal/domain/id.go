package domain

import (
	"strconv"
)

// EntityID - идентификатор сущности симуляции.
//
// Реестр выдаёт идентификаторы монотонно, начиная с 1, и никогда не
// переиспользует их. Поэтому ссылка на уничтоженную сущность не может
// случайно указать на новую, а сравнение ID задаёт стабильный порядок
// создания, который используется во всех тай-брейках.
type EntityID uint64

// NilEntityID - нулевой идентификатор, "сущности нет".
const NilEntityID EntityID = 0

// IsNil проверяет, является ли идентификатор нулевым.
func (id EntityID) IsNil() bool {
	return id == NilEntityID
}

// String для логов.
func (id EntityID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших uint64.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	s := string(data)

	if len(s) > 1 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*id = NilEntityID
		return nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}

	*id = EntityID(v)
	return nil
}
