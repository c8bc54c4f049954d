package remote

import (
	"github.com/egabank/ega/internal/model"
)

func clientToDTO(c model.Client) clientDTO {
	return clientDTO{
		ID:          c.RemoteID,
		Nom:         c.LastName,
		Prenom:      c.FirstName,
		DNaissance:  Date{c.BirthDate},
		Sexe:        c.Gender,
		Adresse:     c.Address,
		Tel:         c.Phone,
		Nationalite: c.Nationality,
		Courriel:    c.Email,
	}
}

func clientFromDTO(d clientDTO) model.Client {
	return model.Client{
		ID:          model.RemoteKey(model.PrefixClient, d.ID),
		LastName:    d.Nom,
		FirstName:   d.Prenom,
		BirthDate:   d.DNaissance.Time,
		Gender:      d.Sexe,
		Address:     d.Adresse,
		Phone:       d.Tel,
		Nationality: d.Nationalite,
		Email:       d.Courriel,
		Sync:        model.Sync{RemoteID: d.ID},
	}
}

func accountToDTO(a model.Account, clientRemoteID int64) accountDTO {
	return accountDTO{
		ID:           a.RemoteID,
		NumeroCompte: a.Number,
		DateCreation: Date{a.CreatedAt},
		TypeCompte:   string(a.Type),
		Solde:        Amount(a.Balance),
		Client:       &ref{ID: clientRemoteID},
	}
}

func accountFromDTO(d accountDTO) model.Account {
	a := model.Account{
		ID:        model.RemoteKey(model.PrefixAccount, d.ID),
		Number:    d.NumeroCompte,
		Type:      model.AccountType(d.TypeCompte),
		Balance:   int64(d.Solde),
		CreatedAt: d.DateCreation.Time,
		Sync:      model.Sync{RemoteID: d.ID},
	}
	if d.Client != nil {
		a.ClientID = model.RemoteKey(model.PrefixClient, d.Client.ID)
	}
	return a
}

func transactionToDTO(t model.Transaction, accountRemoteID int64) transactionDTO {
	return transactionDTO{
		ID:                t.RemoteID,
		DateTransaction:   Timestamp{t.Timestamp},
		Type:              string(t.Type),
		Montant:           Amount(t.Amount),
		MontantAvant:      Amount(t.BalanceBefore),
		MontantApres:      Amount(t.BalanceAfter),
		NumeroCompte:      t.AccountNumber,
		CompteDestination: t.CounterpartyNumber,
		NomClient:         t.ClientName,
		OrigineFonds:      t.FundsOrigin,
		Description:       t.Description,
		CompteID:          accountRemoteID,
	}
}

// transactionFromDTO resolves the owning account number from numeroCompte,
// falling back to the nested compte reference and then to the accounts
// indexed by remote id.
func transactionFromDTO(d transactionDTO, numbers map[int64]string) model.Transaction {
	number := d.NumeroCompte
	if number == "" && d.Compte != nil {
		number = d.Compte.NumeroCompte
		if number == "" {
			number = numbers[d.Compte.ID]
		}
	}
	if number == "" {
		number = numbers[d.CompteID]
	}

	return model.Transaction{
		ID:                 model.RemoteKey(model.PrefixTransaction, d.ID),
		Timestamp:          d.DateTransaction.Time,
		Type:               model.TransactionType(d.Type),
		Amount:             int64(d.Montant),
		BalanceBefore:      int64(d.MontantAvant),
		BalanceAfter:       int64(d.MontantApres),
		AccountNumber:      number,
		CounterpartyNumber: d.CompteDestination,
		ClientName:         d.NomClient,
		FundsOrigin:        d.OrigineFonds,
		Description:        d.Description,
		Sync:               model.Sync{RemoteID: d.ID},
	}
}
