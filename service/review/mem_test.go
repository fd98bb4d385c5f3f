package review

import "testing"

func TestMemAcceptAll(t *testing.T) {
	testServiceAcceptAll(t, prepareMem)
}

func TestMemCount(t *testing.T) {
	testServiceCount(t, prepareMem)
}

func TestMemCreateDuplicate(t *testing.T) {
	testServiceCreateDuplicate(t, prepareMem)
}

func TestMemDelete(t *testing.T) {
	testServiceDelete(t, prepareMem)
}

func TestMemDeleteByFilm(t *testing.T) {
	testServiceDeleteByFilm(t, prepareMem)
}

func TestMemPut(t *testing.T) {
	testServicePut(t, prepareMem)
}

func TestMemQuery(t *testing.T) {
	testServiceQuery(t, prepareMem)
}

func prepareMem(t *testing.T, ns string) Service {
	return MemService()
}
