package pharmacy

import (
	"sync"

	"backend-farmacia/internal/models"

	"github.com/sirupsen/logrus"
)

// Pharmacy - pengelola antrian satu loket apotek.
// Semua state (antrian, counter, log penyerahan) dijaga satu mutex.
type Pharmacy struct {
	mu         sync.Mutex
	waiting    []*models.Customer
	nextTurn   int
	deliveries []models.Medication
	logger     logrus.FieldLogger
}

func New(logger logrus.FieldLogger) *Pharmacy {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}

	return &Pharmacy{
		waiting:    make([]*models.Customer, 0),
		nextTurn:   1,
		deliveries: make([]models.Medication, 0),
		logger:     logger.WithField("component", "pharmacy"),
	}
}

// Enqueue - kasih nomor antrian lalu taruh di ekor antrian.
// Yang disimpan salinan, jadi TurnNumber tidak bisa diubah pemanggil setelahnya.
// Nama dan identitas kosong tetap diterima apa adanya.
func (p *Pharmacy) Enqueue(c models.Customer) models.Customer {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := c.Clone()
	stored.TurnNumber = p.nextTurn
	p.waiting = append(p.waiting, &stored)
	p.nextTurn++

	p.logger.WithField("turn", stored.TurnNumber).Debug("customer enqueued")
	return stored.Clone()
}

// AssignTurn - versi ringkas Enqueue untuk layer HTTP
func (p *Pharmacy) AssignTurn(name, identifier string) int {
	return p.Enqueue(*models.NewCustomer(name, identifier)).TurnNumber
}

// Dispense - serahkan obat lalu keluarkan pelanggan dari antrian.
// Daftar obat kosong tetap menyelesaikan giliran. Turn tidak dikenal = no-op.
func (p *Pharmacy) Dispense(turnNumber int, names []string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.find(turnNumber)
	if idx < 0 {
		p.logger.WithField("turn", turnNumber).Debug("dispense: turn not waiting")
		return false
	}

	p.record(p.waiting[idx], names)
	p.remove(idx)

	p.logger.WithFields(logrus.Fields{
		"turn":        turnNumber,
		"medications": len(names),
	}).Debug("customer served")
	return true
}

// AddMedications - catat obat tanpa menutup giliran, pelanggan tetap menunggu
func (p *Pharmacy) AddMedications(turnNumber int, names []string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.find(turnNumber)
	if idx < 0 {
		return false
	}

	p.record(p.waiting[idx], names)
	return true
}

// UndoLastMedication - batalkan obat terakhir milik pelanggan yang MASIH menunggu.
// Setelah Dispense pelanggan sudah keluar antrian, jadi undo jadi no-op.
func (p *Pharmacy) UndoLastMedication(turnNumber int) (models.Medication, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.find(turnNumber)
	if idx < 0 {
		p.logger.WithField("turn", turnNumber).Debug("undo: turn not waiting")
		return models.Medication{}, false
	}

	last, ok := p.waiting[idx].UndoMedication()
	if !ok {
		return models.Medication{}, false
	}

	for i, m := range p.deliveries {
		if m.ID == last.ID {
			copy(p.deliveries[i:], p.deliveries[i+1:])
			p.deliveries = p.deliveries[:len(p.deliveries)-1]
			break
		}
	}

	return last, true
}

// Waiting - snapshot antrian, urutan FIFO
func (p *Pharmacy) Waiting() []models.Customer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waitingLocked()
}

// Dispensed - snapshot log penyerahan, urutan sesuai waktu dicatat
func (p *Pharmacy) Dispensed() []models.Medication {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispensedLocked()
}

func (p *Pharmacy) waitingLocked() []models.Customer {
	out := make([]models.Customer, 0, len(p.waiting))
	for _, c := range p.waiting {
		out = append(out, c.Clone())
	}
	return out
}

func (p *Pharmacy) dispensedLocked() []models.Medication {
	out := make([]models.Medication, len(p.deliveries))
	copy(out, p.deliveries)
	return out
}

// Snapshot - antrian, log penyerahan dan nomor berikutnya dibaca dalam satu lock
type Snapshot struct {
	Waiting   []models.Customer
	Dispensed []models.Medication
	NextTurn  int
}

func (p *Pharmacy) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Waiting:   p.waitingLocked(),
		Dispensed: p.dispensedLocked(),
		NextTurn:  p.nextTurn,
	}
}

func (p *Pharmacy) Customer(turnNumber int) (models.Customer, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.find(turnNumber)
	if idx < 0 {
		return models.Customer{}, false
	}
	return p.waiting[idx].Clone(), true
}

func (p *Pharmacy) NextTurn() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nextTurn
}

// find - scan linear, turn unik jadi paling banyak satu yang cocok.
// Harus dipanggil dengan mu terkunci.
func (p *Pharmacy) find(turnNumber int) int {
	for i, c := range p.waiting {
		if c.TurnNumber == turnNumber {
			return i
		}
	}
	return -1
}

// remove - keluarkan pelanggan di posisi idx, slot terakhir di-nil supaya bisa di-GC
func (p *Pharmacy) remove(idx int) {
	last := len(p.waiting) - 1
	copy(p.waiting[idx:], p.waiting[idx+1:])
	p.waiting[last] = nil
	p.waiting = p.waiting[:last]
}

func (p *Pharmacy) record(c *models.Customer, names []string) {
	for _, name := range names {
		m := models.NewMedication(name, c.TurnNumber)
		c.AddMedication(m)
		p.deliveries = append(p.deliveries, m)
	}
}
