package models

// Entity is implemented by every lookup and detail record a Game can point at.
type Entity interface {
	TableName() string
	String() string
	GetID() uint
}

func (g Genre) GetID() uint             { return g.ID }
func (p Platform) GetID() uint          { return p.ID }
func (s Store) GetID() uint             { return s.ID }
func (s Size) GetID() uint              { return s.ID }
func (d Developer) GetID() uint         { return d.ID }
func (p Publisher) GetID() uint         { return p.ID }
func (d DLC) GetID() uint               { return d.ID }
func (m GameMode) GetID() uint          { return m.ID }
func (l License) GetID() uint           { return l.ID }
func (s SystemRequirement) GetID() uint { return s.ID }
func (r Review) GetID() uint            { return r.ID }
func (m Multimedia) GetID() uint        { return m.ID }
func (s Status) GetID() uint            { return s.ID }
func (s SalesHistory) GetID() uint      { return s.ID }
func (l GameLog) GetID() uint           { return l.ID }
func (r Rating) GetID() uint            { return r.ID }
func (o OnlineStatus) GetID() uint      { return o.ID }
func (a Award) GetID() uint             { return a.ID }
func (l Language) GetID() uint          { return l.ID }
