package cgd_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybox/internal/importer/cgd"
	"github.com/MrJamesThe3rd/moneybox/internal/payment"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Conta(t *testing.T) {
	csv := `Consultar saldos e movimentos à ordem - 31-01-2026;"=""0000"""
Nome cliente;JOHN DOE
NIF;"=""123"""

Dados da conta
Conta;0000 - EUR - Conta Extracto
Saldo contabilístico;1.000,00 EUR
Saldo disponível;1.000,00 EUR

Dados da consulta
Período;Últimos 90 dias
Intervalo de;01-01-2026 a 31-01-2026
Tipos de movimento;Todos

Data mov.;Data-valor;Descrição;Montante;Saldo contabilístico após movimento
30-01-2026;30-01-2026;INSTITUTO GESTAO FINA;-588,74;48.825,46
09-01-2026;09-01-2026;TFI Wise;8.608,52;52.532,78
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2026, 1, 30), got[0].Date)
	assert.Equal(t, "INSTITUTO GESTAO FINA", got[0].Note)
	assert.Equal(t, int64(58874), got[0].Amount)
	assert.Equal(t, payment.TypeExpense, got[0].Type)

	assert.Equal(t, date(2026, 1, 9), got[1].Date)
	assert.Equal(t, "TFI Wise", got[1].Note)
	assert.Equal(t, int64(860852), got[1].Amount)
	assert.Equal(t, payment.TypeIncome, got[1].Type)
}

func TestParser_Extrato(t *testing.T) {
	csv := `Consultar extrato - 15-02-2026 : 0829015676030
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974
Conta ;0829015676030 - EUR - Conta Extracto
Intervalo de ;01-02-2026 a 14-02-2026
Tipos de movimento ;Todos
Saldo contabilístico Inicial ;48.825,46
Saldo contabilístico final ;41.393,66

Data mov. ;Data valor ;Origem ;Descrição ;Movimento ;Estorno ;Saldo contabilístico após movimento ;
13-02-2026;13-02-2026;"=""0003""";PAGAMENTO TSU ;-608,13;  ;41.393,66;
04-02-2026;04-02-2026;SIBS ;TFI Wise ;4.324,06;  ;51.302,85;
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2026, 2, 13), got[0].Date)
	assert.Equal(t, "PAGAMENTO TSU", got[0].Note)
	assert.Equal(t, int64(60813), got[0].Amount)
	assert.Equal(t, payment.TypeExpense, got[0].Type)

	assert.Equal(t, date(2026, 2, 4), got[1].Date)
	assert.Equal(t, "TFI Wise", got[1].Note)
	assert.Equal(t, int64(432406), got[1].Amount)
	assert.Equal(t, payment.TypeIncome, got[1].Type)
}

func TestParser_Cartao(t *testing.T) {
	csv := `Consultar saldos e movimentos de cartões - 15-02-2026
Nome empresa ;VIBRANTGARDEN UNIPESSOAL,LDA
NIF ;517948974

Conta cartão ;4163 **** **** 8016 - EUR - Business Débito
Tipo de movimentos ;Conta à ordem
Desde ;15/12/2025

Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;PA GONDOMAR         GONDOMAR ;64,00 ; ;
31-12-2025 ;29-12-2025 ;UBER   *TRIP             HELP.UBER.COMNL ;47,91 ; ;
 ; ; ; ;Página 1/2 ;
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2025, 12, 16), got[0].Date)
	assert.Equal(t, "PA GONDOMAR GONDOMAR", got[0].Note)
	assert.Equal(t, int64(6400), got[0].Amount)
	assert.Equal(t, payment.TypeExpense, got[0].Type)

	assert.Equal(t, date(2025, 12, 31), got[1].Date)
	assert.Equal(t, "UBER *TRIP HELP.UBER.COMNL", got[1].Note)
	assert.Equal(t, int64(4791), got[1].Amount)
	assert.Equal(t, payment.TypeExpense, got[1].Type)
}

func TestParser_CartaoCredit(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
16-12-2025 ;14-12-2025 ;REFUND AMAZON ;  ;25,00 ;
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, int64(2500), got[0].Amount)
	assert.Equal(t, payment.TypeIncome, got[0].Type)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Random;MetaData
Montante;Descrição;Data mov.;Ignored
-10,00;TEST_ORDER;30-01-2026;XXX
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "TEST_ORDER", got[0].Note)
	assert.Equal(t, int64(1000), got[0].Amount)
}

func TestParser_EmptyFile(t *testing.T) {
	p := cgd.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no known CGD statement header")
}

func TestParser_HeaderOnly(t *testing.T) {
	csv := `Data mov.;Data-valor;Descrição;Montante`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParser_MissingDescription(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;;-10,00
`

	p := cgd.NewParser()
	_, err := p.Parse(strings.NewReader(csv))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "description")
}

func TestParser_DateLayouts(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30/01/2026;SLASHED;-1,00
2026-01-31;ISO;2,00
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, date(2026, 1, 30), got[0].Date)
	assert.Equal(t, payment.TypeExpense, got[0].Type)
	assert.Equal(t, date(2026, 1, 31), got[1].Date)
	assert.Equal(t, payment.TypeIncome, got[1].Type)
}

func TestParser_SkipsZeroAmounts(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;NOTHING;0,00
30-01-2026;SOMETHING;-0,01
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "SOMETHING", got[0].Note)
	assert.Equal(t, int64(1), got[0].Amount)
}

func TestParser_LargeAmounts(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;BIG TRANSFER;-1.234.567,89
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, int64(123456789), got[0].Amount)
}

func TestParser_SkipsFooterRows(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;TEST;-10,00
Totais;;;;
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestParser_CartaoDebitAndCreditNet(t *testing.T) {
	csv := `Data ;Data valor ;Descrição ;Débito ;Crédito ;
02-01-2026 ;02-01-2026 ;CASHBACK ;10,00 ;12,50 ;
03-01-2026 ;03-01-2026 ;VOIDED ;5,00 ;5,00 ;
`

	p := cgd.NewParser()
	got, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CASHBACK", got[0].Note)
	assert.Equal(t, int64(250), got[0].Amount)
	assert.Equal(t, payment.TypeIncome, got[0].Type)
}

func TestParser_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "not a number", amount: "abc"},
		{name: "three decimals", amount: "-1,005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Data mov.;Descrição;Montante\n30-01-2026;SHOP;" + tt.amount + "\n"

			_, err := cgd.NewParser().Parse(strings.NewReader(csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "line 2")
		})
	}
}

func TestParser_CurrencySuffix(t *testing.T) {
	csv := `Data mov.;Descrição;Montante
30-01-2026;SALARY;1.500,00 EUR
`

	got, err := cgd.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, int64(150000), got[0].Amount)
	assert.Equal(t, payment.TypeIncome, got[0].Type)
}
